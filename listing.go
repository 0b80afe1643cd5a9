package couponcrawl

import (
	"strconv"
	"strings"
)

// ListingPage is one page of the paginated course index.
// Index is 1-based.
type ListingPage struct {
	Index int
}

// URL returns the page address under the listing root.
func (p ListingPage) URL(root string) string {
	return strings.TrimRight(root, "/") + "/" + strconv.Itoa(p.Index)
}

// Card is one course entry on a listing page.
type Card struct {
	Link     string // raw href of the title anchor, empty if missing
	Name     string
	ImageURL string
}

// CourseDetail holds what a detail page yields.
type CourseDetail struct {
	CouponLinks []string
	Name        string
	Description string
	ImageURL    string
}

// ListingParser reads listing pages.
type ListingParser interface {
	// ParsePageCount returns the highest index in the pagination control.
	// Returns EDISCOVERY if no numeric pagination entry is present.
	ParsePageCount(html string) (int, error)

	// ParseCards returns the course cards in document order.
	ParseCards(html string) ([]Card, error)
}

// DetailParser reads course detail pages.
type DetailParser interface {
	// ParseDetail extracts coupon links and course metadata.
	// Missing elements leave the corresponding fields empty.
	ParseDetail(html string) (*CourseDetail, error)
}

// NormalizeDetailLink rewrites href as goPrefix/<last path segment>.
// Trailing slashes on href are ignored. The bool result is false when href
// has no usable segment.
//
// Normalizing an already-normalized link returns it unchanged.
func NormalizeDetailLink(goPrefix, href string) (string, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(href), "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if segment == "" {
		return "", false
	}
	return strings.TrimRight(goPrefix, "/") + "/" + segment, true
}
