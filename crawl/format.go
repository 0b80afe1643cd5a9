package crawl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
// The result never exceeds maxLen bytes and never splits a UTF-8 sequence.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(url) <= maxLen {
		return url
	}
	if maxLen < 4 {
		// Too short for the "..." prefix.
		end := maxLen
		for end > 0 && !utf8.RuneStart(url[end]) {
			end--
		}
		return url[:end]
	}
	start := len(url) - maxLen + 3
	for start < len(url) && !utf8.RuneStart(url[start]) {
		start++
	}
	return "..." + url[start:]
}

// FormatCrawlSummary renders the counters of a crawl run on one line.
func FormatCrawlSummary(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crawled %d pages, %d detail links, %d coupons: %d new, %d already stored",
		r.Pages, r.DetailLinks, r.Coupons, r.Inserted, r.Duplicates)
	writeTail(&b, r)
	return b.String()
}

// FormatImageSummary renders the counters of an image refresh on one line.
func FormatImageSummary(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scanned %d pages: %d images updated, %d names without a stored course",
		r.Pages, r.Updated, r.NoMatch)
	writeTail(&b, r)
	return b.String()
}

func writeTail(b *strings.Builder, r *Result) {
	if n := r.Failed(); n > 0 {
		fmt.Fprintf(b, ", %d failed", n)
	}
	if r.Interrupted {
		b.WriteString(" (interrupted)")
	}
}
