// Package crawl provides coupon crawling orchestration.
// It coordinates page-count discovery, listing and detail extraction,
// rate limiting, and persistence of course records.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/bloom"
	"golang.org/x/sync/errgroup"
)

// Defaults for the discudemy listing.
const (
	DefaultRootURL     = "https://www.discudemy.com/all"
	DefaultGoPrefix    = "https://www.discudemy.com/go"
	DefaultConcurrency = 4
)

// Run-scoped detail link deduplication.
const (
	seenExpectedLinks     = 20000
	seenFalsePositiveRate = 1e-6
)

// Crawler orchestrates the crawling of a course listing.
type Crawler struct {
	Fetcher  couponcrawl.Fetcher
	Listings couponcrawl.ListingParser
	Details  couponcrawl.DetailParser
	Courses  couponcrawl.CourseService
	Limiter  couponcrawl.RateLimiter
	Logger   *slog.Logger

	// RootURL is the listing root; page N lives at RootURL/N.
	RootURL string
	// GoPrefix is the canonical prefix detail links are rewritten under.
	GoPrefix string
	// FirstPage and LastPage narrow the page range. Zero means 1 and the
	// discovered highest page respectively.
	FirstPage int
	LastPage  int

	Concurrency int
	RetryDelays []time.Duration
}

// Stage names the pipeline step a failure happened in.
type Stage string

const (
	StageListing Stage = "listing"
	StageDetail  Stage = "detail"
	StagePersist Stage = "persist"
	StageImage   Stage = "image"
)

// Failure is a recovered per-item error.
type Failure struct {
	Stage Stage
	URL   string
	Err   error
}

// Result holds the outcome of a crawl or image refresh.
type Result struct {
	Pages       int
	DetailLinks int
	Coupons     int
	Inserted    int
	Duplicates  int
	Updated     int
	NoMatch     int
	Failures    []Failure
	Interrupted bool
}

// Failed returns the number of recovered failures.
func (r *Result) Failed() int {
	return len(r.Failures)
}

// tally accumulates a Result from concurrent workers.
type tally struct {
	mu  sync.Mutex
	res Result
}

func (t *tally) add(fn func(r *Result)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.res)
}

func (t *tally) fail(stage Stage, url string, err error) {
	t.add(func(r *Result) {
		r.Failures = append(r.Failures, Failure{Stage: stage, URL: url, Err: err})
	})
}

func (t *tally) result() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	res := t.res
	return &res
}

// DiscoverHighestPage fetches the listing root and returns its highest
// pagination index. Any failure is reported as EDISCOVERY.
func (c *Crawler) DiscoverHighestPage(ctx context.Context, rootURL string) (int, error) {
	html, err := c.fetch(ctx, rootURL)
	if err != nil {
		return 0, couponcrawl.WrapError(couponcrawl.EDISCOVERY, err, "fetch listing root %s", rootURL)
	}

	highest, err := c.Listings.ParsePageCount(html)
	if err != nil {
		if couponcrawl.ErrorCode(err) == couponcrawl.EDISCOVERY {
			return 0, err
		}
		return 0, couponcrawl.WrapError(couponcrawl.EDISCOVERY, err, "parse pagination of %s", rootURL)
	}
	return highest, nil
}

// ExtractLinks returns the normalized detail links of a listing page.
// Failures are logged and yield an empty slice.
func (c *Crawler) ExtractLinks(ctx context.Context, pageURL string) []string {
	links, err := c.extractLinks(ctx, pageURL)
	if err != nil {
		c.logger().Warn("listing extraction failed", "stage", StageListing, "url", pageURL, "err", err)
		return []string{}
	}
	return links
}

// ExtractDetails returns the coupon links and metadata of a detail page.
// Failures are logged and yield an empty, non-nil detail.
func (c *Crawler) ExtractDetails(ctx context.Context, detailURL string) *couponcrawl.CourseDetail {
	detail, err := c.extractDetails(ctx, detailURL)
	if err != nil {
		c.logger().Warn("detail extraction failed", "stage", StageDetail, "url", detailURL, "err", err)
		return &couponcrawl.CourseDetail{}
	}
	return detail
}

// Run crawls the configured page range and inserts every coupon link found.
// Only a discovery failure aborts the run; per-item failures are collected
// in Result.Failures. If ctx is canceled no new fetch is issued, in-flight
// work drains, and the partial result is returned with Interrupted set.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	log := c.logger()
	root := c.rootURL()

	highest, err := c.DiscoverHighestPage(ctx, root)
	if err != nil {
		log.Error("page discovery failed", "url", root, "err", err)
		return nil, err
	}
	first, last := c.pageRange(highest)
	log.Info("crawl started", "url", root, "highest_page", highest, "first_page", first, "last_page", last)

	var t tally
	links := make(chan string)
	seen := bloom.NewLinkSet(seenExpectedLinks, seenFalsePositiveRate)

	var g errgroup.Group

	// Producer: walk pages and queue unseen detail links.
	g.Go(func() error {
		defer close(links)
		for i := first; i <= last; i++ {
			if ctx.Err() != nil {
				return nil
			}
			pageURL := couponcrawl.ListingPage{Index: i}.URL(root)
			pageLinks, err := c.extractLinks(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				t.fail(StageListing, pageURL, err)
				log.Warn("listing extraction failed", "stage", StageListing, "url", pageURL, "err", err)
				continue
			}
			t.add(func(r *Result) { r.Pages++ })
			log.Info("listing page processed", "page", i, "url", pageURL, "links", len(pageLinks))

			for _, link := range pageLinks {
				if !seen.Claim(link) {
					continue
				}
				select {
				case links <- link:
				case <-ctx.Done():
					return nil
				}
			}
		}
		return nil
	})

	for range c.concurrency() {
		g.Go(func() error {
			for link := range links {
				if ctx.Err() != nil {
					continue
				}
				c.processDetail(ctx, link, &t)
			}
			return nil
		})
	}

	_ = g.Wait()

	res := t.result()
	res.DetailLinks = int(seen.Claimed())
	res.Interrupted = ctx.Err() != nil
	log.Info("crawl finished",
		"pages", res.Pages,
		"detail_links", res.DetailLinks,
		"coupons", res.Coupons,
		"inserted", res.Inserted,
		"duplicates", res.Duplicates,
		"failed", res.Failed(),
		"interrupted", res.Interrupted,
	)
	return res, nil
}

// processDetail extracts one detail page and persists its coupon links.
func (c *Crawler) processDetail(ctx context.Context, link string, t *tally) {
	detail, err := c.extractDetails(ctx, link)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		t.fail(StageDetail, link, err)
		c.logger().Warn("detail extraction failed", "stage", StageDetail, "url", link, "err", err)
		return
	}

	// A page whose coupons are being stored is finished even on cancellation.
	persistCtx := context.WithoutCancel(ctx)
	for _, coupon := range detail.CouponLinks {
		t.add(func(r *Result) { r.Coupons++ })

		course := &couponcrawl.Course{
			URL:         coupon,
			Name:        detail.Name,
			Description: detail.Description,
			Image:       detail.ImageURL,
		}
		outcome, err := c.Courses.InsertCourse(persistCtx, course)
		if err != nil {
			t.fail(StagePersist, coupon, err)
			c.logger().Warn("persist failed", "stage", StagePersist, "url", coupon, "err", err)
			continue
		}
		t.add(func(r *Result) {
			if outcome == couponcrawl.AlreadyPresent {
				r.Duplicates++
			} else {
				r.Inserted++
			}
		})
	}
}

// RunRepeated runs the pipeline iterations times, pausing between runs.
// A failed iteration is logged and the loop moves on; the returned error
// joins every iteration failure.
func (c *Crawler) RunRepeated(ctx context.Context, iterations int, pause time.Duration) ([]*Result, error) {
	iterations = max(iterations, 1)

	var results []*Result
	var errs []error
	for i := 1; i <= iterations; i++ {
		res, err := c.Run(ctx)
		if err != nil {
			c.logger().Error("crawl iteration failed", "iteration", i, "err", err)
			errs = append(errs, err)
		} else {
			results = append(results, res)
		}

		if i == iterations || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(pause):
		}
	}
	return results, errors.Join(errs...)
}

// RefreshImages walks the listing again and backfills course images by
// course name. Cards lacking a name or image are skipped.
func (c *Crawler) RefreshImages(ctx context.Context) (*Result, error) {
	log := c.logger()
	root := c.rootURL()

	highest, err := c.DiscoverHighestPage(ctx, root)
	if err != nil {
		log.Error("page discovery failed", "url", root, "err", err)
		return nil, err
	}
	first, last := c.pageRange(highest)
	log.Info("image refresh started", "url", root, "first_page", first, "last_page", last)

	var t tally
	persistCtx := context.WithoutCancel(ctx)
	for i := first; i <= last && ctx.Err() == nil; i++ {
		pageURL := couponcrawl.ListingPage{Index: i}.URL(root)
		cards, err := c.listCards(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			t.fail(StageListing, pageURL, err)
			log.Warn("listing extraction failed", "stage", StageListing, "url", pageURL, "err", err)
			continue
		}
		t.add(func(r *Result) { r.Pages++ })

		for _, card := range cards {
			if card.Name == "" || card.ImageURL == "" {
				continue
			}
			outcome, err := c.Courses.UpdateCourseImage(persistCtx, card.Name, card.ImageURL)
			if err != nil {
				t.fail(StageImage, pageURL, err)
				log.Warn("image update failed", "stage", StageImage, "name", card.Name, "err", err)
				continue
			}
			t.add(func(r *Result) {
				if outcome.NoMatch() {
					r.NoMatch++
				} else {
					r.Updated += outcome.Matched
				}
			})
		}
	}

	res := t.result()
	res.Interrupted = ctx.Err() != nil
	log.Info("image refresh finished",
		"pages", res.Pages,
		"updated", res.Updated,
		"no_match", res.NoMatch,
		"failed", res.Failed(),
		"interrupted", res.Interrupted,
	)
	return res, nil
}

// listCards fetches a listing page and parses its cards.
func (c *Crawler) listCards(ctx context.Context, pageURL string) ([]couponcrawl.Card, error) {
	html, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.Listings.ParseCards(html)
}

// extractLinks fetches a listing page and normalizes its card links.
// Cards without a link are skipped.
func (c *Crawler) extractLinks(ctx context.Context, pageURL string) ([]string, error) {
	cards, err := c.listCards(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(cards))
	for _, card := range cards {
		link, ok := couponcrawl.NormalizeDetailLink(c.goPrefix(), card.Link)
		if !ok {
			continue
		}
		links = append(links, link)
	}
	return links, nil
}

// extractDetails fetches and parses a detail page.
func (c *Crawler) extractDetails(ctx context.Context, detailURL string) (*couponcrawl.CourseDetail, error) {
	html, err := c.fetch(ctx, detailURL)
	if err != nil {
		return nil, err
	}
	detail, err := c.Details.ParseDetail(html)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("detail page processed", "url", detailURL, "coupons", len(detail.CouponLinks), "name", detail.Name)
	return detail, nil
}

// fetch retrieves url through the shared limiter, retrying on failure.
// Every attempt takes a token, so failing origins are not hammered.
// An attempt that has been issued runs to completion even if ctx is
// canceled; the fetcher's own timeout bounds it.
func (c *Crawler) fetch(ctx context.Context, url string) (string, error) {
	limiter := c.limiter()
	fetchFn := func(ctx context.Context, url string) (string, error) {
		if err := limiter.Acquire(ctx); err != nil {
			return "", err
		}
		return c.Fetcher.Fetch(context.WithoutCancel(ctx), url)
	}
	backoff := Backoff{
		Delays: c.retryDelays(),
		OnRetry: func(url string, attempt int, err error) {
			c.logger().Debug("retrying fetch", "url", url, "attempt", attempt, "err", err)
		},
	}

	html, err := backoff.Fetch(ctx, url, fetchFn)
	if err != nil {
		return "", couponcrawl.WrapError(couponcrawl.EFETCH, err, "fetch %s", url)
	}
	return html, nil
}

func (c *Crawler) pageRange(highest int) (first, last int) {
	first, last = 1, highest
	if c.FirstPage > 1 {
		first = c.FirstPage
	}
	if c.LastPage > 0 && c.LastPage < highest {
		last = c.LastPage
	}
	return first, last
}

func (c *Crawler) rootURL() string {
	if c.RootURL == "" {
		return DefaultRootURL
	}
	return c.RootURL
}

func (c *Crawler) goPrefix() string {
	if c.GoPrefix == "" {
		return DefaultGoPrefix
	}
	return c.GoPrefix
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Crawler) retryDelays() []time.Duration {
	if c.RetryDelays == nil {
		return ExponentialDelays(DefaultRetries, time.Second)
	}
	return c.RetryDelays
}

var unlimited = NewLimiter(0, 1)

func (c *Crawler) limiter() couponcrawl.RateLimiter {
	if c.Limiter == nil {
		return unlimited
	}
	return c.Limiter
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
