// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Anchor is one (href, display text) pair pulled out of a page.
type Anchor struct {
	Href string
	Text string
}

// DefaultSelectors target the content-bearing regions the source sites use.
// Matching runs as a single combined selector so anchors keep document
// order and appear once even when regions nest.
var DefaultSelectors = []string{
	"article a[href]",
	"main a[href]",
	".entry-content a[href]",
}

// ExtractAnchors parses HTML from r and returns the anchors matched by the
// configured structural selectors, in document order.
func ExtractAnchors(r io.Reader, selectors []string) ([]Anchor, error) {
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var anchors []Anchor
	doc.Find(strings.Join(selectors, ", ")).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		anchors = append(anchors, Anchor{
			Href: href,
			Text: strings.TrimSpace(sel.Text()),
		})
	})
	return anchors, nil
}
