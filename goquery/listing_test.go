package goquery_test

import (
	"testing"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure ListingParser implements couponcrawl.ListingParser at compile time.
var _ couponcrawl.ListingParser = (*goquery.ListingParser)(nil)

func TestListingParser_ParsePageCount(t *testing.T) {
	t.Parallel()

	t.Run("returns highest numeric label", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<ul class="pagination3 border">
	<li><a href="/all/3">3</a></li>
	<li><a href="/all/1">1</a></li>
	<li><a href="/all/7"> 7 </a></li>
	<li><a href="/all/2">2</a></li>
</ul>
</body></html>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		n, err := p.ParsePageCount(html)

		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("ignores non-numeric labels", func(t *testing.T) {
		t.Parallel()

		html := `<ul class="pagination3 border">
	<li><a href="/all/1">«</a></li>
	<li><a href="/all/4">4</a></li>
	<li><a href="/all/5">Next</a></li>
</ul>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		n, err := p.ParsePageCount(html)

		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("returns discovery error when no numeric labels exist", func(t *testing.T) {
		t.Parallel()

		html := `<ul class="pagination3 border">
	<li><a href="/all/1">First</a></li>
	<li><a href="/all/2">Last</a></li>
</ul>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		n, err := p.ParsePageCount(html)

		require.Error(t, err)
		assert.Equal(t, couponcrawl.EDISCOVERY, couponcrawl.ErrorCode(err))
		assert.Zero(t, n)
	})

	t.Run("returns discovery error when pagination is missing", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		_, err := p.ParsePageCount(`<html><body><p>maintenance</p></body></html>`)

		assert.Equal(t, couponcrawl.EDISCOVERY, couponcrawl.ErrorCode(err))
	})

	t.Run("ignores zero and negative labels", func(t *testing.T) {
		t.Parallel()

		html := `<ul class="pagination3 border"><li><a>0</a></li><li><a>-3</a></li></ul>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		_, err := p.ParsePageCount(html)

		assert.Equal(t, couponcrawl.EDISCOVERY, couponcrawl.ErrorCode(err))
	})
}

func TestListingParser_ParseCards(t *testing.T) {
	t.Parallel()

	t.Run("extracts link name and image from each card", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card">
	<div class="image"><amp-img src="https://img.example.com/go.jpg"></amp-img></div>
	<div class="content"><div class="header"><a href="https://www.discudemy.com/english/learn-go">Learn Go</a></div></div>
</div>
<div class="card">
	<div class="image"><img src="https://img.example.com/rust.jpg"></div>
	<div class="content"><div class="header"><a href="/english/learn-rust"> Learn Rust </a></div></div>
</div>
</body></html>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		cards, err := p.ParseCards(html)

		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, couponcrawl.Card{
			Link:     "https://www.discudemy.com/english/learn-go",
			Name:     "Learn Go",
			ImageURL: "https://img.example.com/go.jpg",
		}, cards[0])
		assert.Equal(t, "/english/learn-rust", cards[1].Link)
		assert.Equal(t, "Learn Rust", cards[1].Name)
		assert.Equal(t, "https://img.example.com/rust.jpg", cards[1].ImageURL)
	})

	t.Run("keeps card with missing href with an empty link", func(t *testing.T) {
		t.Parallel()

		html := `<div class="card"><div class="content"><div class="header"><a>No Link</a></div></div></div>`

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		cards, err := p.ParseCards(html)

		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Empty(t, cards[0].Link)
		assert.Equal(t, "No Link", cards[0].Name)
		assert.Empty(t, cards[0].ImageURL)
	})

	t.Run("returns no cards for page without cards", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewListingParser(goquery.DefaultListingSelectors())
		cards, err := p.ParseCards(`<html><body></body></html>`)

		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}
