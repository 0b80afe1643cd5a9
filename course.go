package couponcrawl

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Course is a persisted coupon record. URL is the dedup key.
type Course struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"` // empty until backfilled
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the course contains invalid fields.
func (c *Course) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "course URL required")
	}
	return nil
}

// ContentHash fingerprints a course's scraped text.
func ContentHash(name, description string) string {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(description)
	return fmt.Sprintf("%x", d.Sum64())
}

// InsertResult reports the outcome of InsertCourse.
type InsertResult int

const (
	Inserted InsertResult = iota
	AlreadyPresent
)

// String returns the outcome as it appears in logs.
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// UpdateResult reports the outcome of UpdateCourseImage.
type UpdateResult struct {
	Matched int
}

// NoMatch reports whether no record carried the requested name.
func (r UpdateResult) NoMatch() bool {
	return r.Matched == 0
}

// CourseService represents a service for managing courses.
type CourseService interface {
	// CourseExists reports whether a course with url is stored.
	CourseExists(ctx context.Context, url string) (bool, error)

	// InsertCourse stores course unless its URL is already present.
	// The check and the write are a single atomic statement, so concurrent
	// callers never create two records with the same URL.
	InsertCourse(ctx context.Context, course *Course) (InsertResult, error)

	// UpdateCourseImage sets the image of every course named name.
	// Zero matches is not an error.
	UpdateCourseImage(ctx context.Context, name, image string) (UpdateResult, error)

	// FindCourses retrieves courses matching the filter.
	FindCourses(ctx context.Context, filter CourseFilter) ([]*Course, error)

	// CountCourses returns the number of stored courses.
	CountCourses(ctx context.Context) (int, error)
}

// CourseFilter represents a filter for FindCourses.
type CourseFilter struct {
	URL  *string `json:"url"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
