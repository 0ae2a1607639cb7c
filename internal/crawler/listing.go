package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// postContainerSelector matches the theme's per-post wrappers by their id
// prefix convention.
const postContainerSelector = `[id^='blog-1-post-']`

// ParseListing extracts thesis records from one listing page. It is lenient:
// malformed markup yields fewer or zero records, never an error.
//
// The traversal deliberately mirrors the theme's fixed layout: each post
// wrapper holds a media div first and a text div second. The title anchor
// lives under the text div's h2; paragraphs under its inner divs form the
// body; the company logo sits in the media div's first list.
func ParseListing(html, origin string) []Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []Record
	doc.Find(postContainerSelector).Each(func(_ int, post *goquery.Selection) {
		divs := post.ChildrenFiltered("div")
		text := divs.Eq(1)

		anchor := text.Find("h2 a").First()
		if anchor.Length() == 0 {
			// No title anchor means no usable record; never emit partials.
			return
		}
		title := collapseSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		link := NormalizeLink(href, origin)

		var parts []string
		text.Find("div p").Each(func(_ int, p *goquery.Selection) {
			if t := collapseSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		var body *string
		if joined := strings.Join(parts, " "); joined != "" {
			body = &joined
		}

		var oib *string
		logo := divs.Eq(0).Find("ul").First().Find("img").First()
		if src, ok := logo.Attr("src"); ok {
			oib = ExtractOIB(src)
		}

		records = append(records, Record{
			Title:      title,
			Body:       body,
			Link:       link,
			CompanyOIB: oib,
		})
	})
	return records
}
