package main

import (
	"fmt"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/crawl"
)

// Run executes the images command.
func (c *ImagesCmd) Run(deps *Dependencies) error {
	res, err := deps.Crawler.RefreshImages(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", couponcrawl.ErrorMessage(err))
		return err
	}
	printFailures(deps.Stderr, res)
	fmt.Fprintln(deps.Stdout, crawl.FormatImageSummary(res))
	return nil
}
