package crawler

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/edudata/schoolscan/internal/model"
)

// Extractor parses fetched markup into a PageRecord: the document title,
// heading texts grouped by level, the visible text body, and the page's
// absolute outbound links.
type Extractor struct {
	baseURL *url.URL
	now     func() time.Time
}

// ExtractorOption is a functional option for configuring an Extractor.
type ExtractorOption func(*Extractor)

// WithClock overrides the timestamp source used for scrapedAt.
// Tests use it to pin the extraction time.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExtractor creates an Extractor for a page at pageURL. Relative
// links found in the document are resolved against that URL.
func NewExtractor(pageURL string, opts ...ExtractorOption) (*Extractor, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	e := &Extractor{
		baseURL: base,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Extract walks the document once and builds the PageRecord. The record
// has no id yet: ids encode the position within a crawl, so the Spider
// assigns them after a successful fetch.
//
// Extraction rules:
//   - title: text of the first <title> element, whitespace-collapsed.
//   - headers: texts of h1/h2/h3 elements in document order, one list
//     per level. Levels with no elements stay absent.
//   - data: every text node outside <script> and <style> subtrees,
//     trimmed and joined with single spaces.
//   - links: href targets of anchors, resolved to absolute form, in
//     order of appearance. Only http and https links are kept.
//     Duplicates survive here; the crawl frontier absorbs them.
func (e *Extractor) Extract(content io.Reader) (*model.PageRecord, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	record := &model.PageRecord{
		URL:       e.baseURL.String(),
		Links:     []string{},
		ScrapedAt: model.Timestamp(e.now()),
	}

	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if record.Title == "" {
					record.Title = elementText(n)
				}
			case "h1":
				record.Headers.H1 = append(record.Headers.H1, elementText(n))
			case "h2":
				record.Headers.H2 = append(record.Headers.H2, elementText(n))
			case "h3":
				record.Headers.H3 = append(record.Headers.H3, elementText(n))
			case "a":
				if resolved := e.resolveURL(getAttr(n, "href")); resolved != "" {
					record.Links = append(record.Links, resolved)
				}
			}
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	record.Data = strings.Join(parts, " ")

	return record, nil
}

// resolveURL converts an href attribute value to an absolute URL.
// Pseudo-scheme links, fragment-only links, and anything that does not
// end up with an http or https scheme resolve to the empty string.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := e.baseURL.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

// elementText collects the text nodes beneath n, trims each one, and
// joins them with single spaces.
func elementText(n *html.Node) string {
	var parts []string

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return strings.Join(parts, " ")
}

// getAttr returns the value of the named attribute, or "" when absent.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
