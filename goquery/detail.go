package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/couponcrawl"
)

// Ensure DetailParser implements couponcrawl.DetailParser at compile time.
var _ couponcrawl.DetailParser = (*DetailParser)(nil)

// DetailSelectors configures detail page extraction.
type DetailSelectors struct {
	CouponAnchors string
	CouponMarker  string // substring an href must contain to count as a coupon
	Title         string
	Description   string
	Image         []Strategy
}

// DefaultDetailSelectors returns the selectors for the discudemy layout.
func DefaultDetailSelectors() DetailSelectors {
	return DetailSelectors{
		CouponAnchors: ".ui.segment a",
		CouponMarker:  "couponCode",
		Title:         ".ui.attached.segment h1.ui.grey.header",
		Description:   ".ui.attached.segment p",
		Image: []Strategy{
			{Selector: ".ui.segment amp-img", Attr: "src"},
			{Selector: ".ui.segment img", Attr: "src"},
		},
	}
}

// DetailParser extracts coupon links and course metadata from detail pages.
type DetailParser struct {
	selectors DetailSelectors
}

// NewDetailParser creates a new DetailParser.
func NewDetailParser(selectors DetailSelectors) *DetailParser {
	return &DetailParser{selectors: selectors}
}

// ParseDetail returns the coupon links in document order, without duplicates,
// together with the course name, first description paragraph and image.
func (p *DetailParser) ParseDetail(html string) (*couponcrawl.CourseDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, couponcrawl.Errorf(couponcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	detail := &couponcrawl.CourseDetail{}
	seen := make(map[string]bool)
	doc.Find(p.selectors.CouponAnchors).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if !strings.Contains(href, p.selectors.CouponMarker) || seen[href] {
			return
		}
		seen[href] = true
		detail.CouponLinks = append(detail.CouponLinks, href)
	})

	detail.Name = strings.TrimSpace(doc.Find(p.selectors.Title).First().Text())
	detail.Description = strings.TrimSpace(doc.Find(p.selectors.Description).First().Text())
	detail.ImageURL = FirstNonEmpty(doc.Selection, p.selectors.Image)

	return detail, nil
}
