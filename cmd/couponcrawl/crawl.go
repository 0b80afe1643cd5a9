package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Iterations <= 1 {
		res, err := deps.Crawler.Run(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", couponcrawl.ErrorMessage(err))
			return err
		}
		printFailures(deps.Stderr, res)
		fmt.Fprintln(deps.Stdout, crawl.FormatCrawlSummary(res))
		return nil
	}

	results, err := deps.Crawler.RunRepeated(deps.Ctx, c.Iterations, c.Pause)
	for i, res := range results {
		printFailures(deps.Stderr, res)
		fmt.Fprintf(deps.Stdout, "Pass %d: %s\n", i+1, crawl.FormatCrawlSummary(res))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", couponcrawl.ErrorMessage(err))
		return err
	}
	return nil
}

func printFailures(w io.Writer, res *crawl.Result) {
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  skip %s %s: %v\n", f.Stage, f.URL, f.Err)
	}
}
