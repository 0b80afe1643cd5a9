package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy reads one attribute from the first element matching Selector.
type Strategy struct {
	Selector string
	Attr     string
}

// FirstNonEmpty tries strategies in order within sel and returns the first
// non-empty trimmed attribute value. Returns "" if every strategy misses.
func FirstNonEmpty(sel *goquery.Selection, strategies []Strategy) string {
	for _, s := range strategies {
		value, ok := sel.Find(s.Selector).First().Attr(s.Attr)
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
