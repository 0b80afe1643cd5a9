package main

import (
	"fmt"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
)

const listURLWidth = 72

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := couponcrawl.CourseFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Name != "" {
		filter.Name = &c.Name
	}

	courses, err := deps.Courses.FindCourses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", couponcrawl.ErrorMessage(err))
		return err
	}

	if len(courses) == 0 {
		fmt.Fprintln(deps.Stdout, "No courses found. Use 'couponcrawl crawl' to collect some.")
		return nil
	}

	for _, course := range courses {
		image := course.Image
		if image == "" {
			image = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", crawl.TruncateURL(course.URL, listURLWidth), course.Name, image)
	}

	total, err := deps.Courses.CountCourses(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", couponcrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "%d of %d courses\n", len(courses), total)
	return nil
}
