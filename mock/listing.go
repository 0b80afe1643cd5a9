package mock

import "github.com/fwojciec/couponcrawl"

var (
	_ couponcrawl.ListingParser = (*ListingParser)(nil)
	_ couponcrawl.DetailParser  = (*DetailParser)(nil)
)

// ListingParser is a mock implementation of couponcrawl.ListingParser.
type ListingParser struct {
	ParsePageCountFn func(html string) (int, error)
	ParseCardsFn     func(html string) ([]couponcrawl.Card, error)
}

func (p *ListingParser) ParsePageCount(html string) (int, error) {
	return p.ParsePageCountFn(html)
}

func (p *ListingParser) ParseCards(html string) ([]couponcrawl.Card, error) {
	return p.ParseCardsFn(html)
}

// DetailParser is a mock implementation of couponcrawl.DetailParser.
type DetailParser struct {
	ParseDetailFn func(html string) (*couponcrawl.CourseDetail, error)
}

func (p *DetailParser) ParseDetail(html string) (*couponcrawl.CourseDetail, error) {
	return p.ParseDetailFn(html)
}
