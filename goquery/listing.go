// Package goquery implements the HTML parsers with CSS selectors.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/couponcrawl"
)

// Ensure ListingParser implements couponcrawl.ListingParser at compile time.
var _ couponcrawl.ListingParser = (*ListingParser)(nil)

// ListingSelectors configures listing page extraction.
type ListingSelectors struct {
	Pagination string
	Card       string
	CardAnchor string
	CardImage  []Strategy
}

// DefaultListingSelectors returns the selectors for the discudemy layout.
// Cards render their image either as <amp-img> or as a plain <img>.
func DefaultListingSelectors() ListingSelectors {
	return ListingSelectors{
		Pagination: "ul.pagination3.border li a",
		Card:       ".card",
		CardAnchor: ".content .header a",
		CardImage: []Strategy{
			{Selector: ".image amp-img", Attr: "src"},
			{Selector: ".image img", Attr: "src"},
		},
	}
}

// ListingParser extracts pagination and cards from listing pages.
type ListingParser struct {
	selectors ListingSelectors
}

// NewListingParser creates a new ListingParser.
func NewListingParser(selectors ListingSelectors) *ListingParser {
	return &ListingParser{selectors: selectors}
}

// ParsePageCount returns the largest numeric pagination label.
func (p *ListingParser) ParsePageCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, couponcrawl.Errorf(couponcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	highest := 0
	doc.Find(p.selectors.Pagination).Each(func(_ int, sel *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
		if err != nil || n < 1 {
			return
		}
		highest = max(highest, n)
	})

	if highest == 0 {
		return 0, couponcrawl.Errorf(couponcrawl.EDISCOVERY, "no numeric pagination entries found")
	}
	return highest, nil
}

// ParseCards returns every card on the page, including cards without a link.
func (p *ListingParser) ParseCards(html string) ([]couponcrawl.Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, couponcrawl.Errorf(couponcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var cards []couponcrawl.Card
	doc.Find(p.selectors.Card).Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find(p.selectors.CardAnchor).First()
		href, _ := anchor.Attr("href")
		cards = append(cards, couponcrawl.Card{
			Link:     strings.TrimSpace(href),
			Name:     strings.TrimSpace(anchor.Text()),
			ImageURL: FirstNonEmpty(sel, p.selectors.CardImage),
		})
	})
	return cards, nil
}
