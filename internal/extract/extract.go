// Package extract pulls text fragments and page metadata out of HTML bodies.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBytes = 1 << 20 // 1 MiB

// Meta is the OpenGraph/title summary of an HTML page.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func parse(body []byte) (*goquery.Document, error) {
	if len(body) > maxHTMLBytes {
		body = body[:maxHTMLBytes]
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Select returns the trimmed text of every node matching the CSS selector.
// An unknown or invalid selector yields no matches rather than an error.
func Select(body []byte, selector string) ([]string, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("selector must not be empty")
	}

	doc, err := parse(body)
	if err != nil {
		return nil, err
	}

	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}

// PageMeta extracts OG metadata with title and meta-description fallbacks.
func PageMeta(body []byte) (Meta, error) {
	doc, err := parse(body)
	if err != nil {
		return Meta{}, err
	}

	attr := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	m := Meta{}
	m.Title = firstNonEmpty(
		attr(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	m.Description = firstNonEmpty(
		attr(`meta[property="og:description"]`),
		attr(`meta[name="description"]`),
	)
	m.ImageURL = attr(`meta[property="og:image"]`)

	return m, nil
}

// ResolveURL resolves href against base. Absolute hrefs pass through, and
// unparseable inputs fall back to href as given.
func ResolveURL(href, base string) string {
	if strings.TrimSpace(href) == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
