package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/couponcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	strategies := []goquery.Strategy{
		{Selector: "amp-img", Attr: "src"},
		{Selector: "img", Attr: "src"},
		{Selector: "img", Attr: "data-src"},
	}

	tests := []struct {
		name string
		html string
		want string
	}{
		{"first strategy wins", `<amp-img src="a.jpg"></amp-img><img src="b.jpg">`, "a.jpg"},
		{"blank value falls through", `<amp-img src="  "></amp-img><img src="b.jpg">`, "b.jpg"},
		{"missing attribute falls through", `<img data-src="c.jpg">`, "c.jpg"},
		{"all strategies miss", `<p>none</p>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := gq.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			assert.Equal(t, tt.want, goquery.FirstNonEmpty(doc.Selection, strategies))
		})
	}
}
