package extract

import (
	"bytes"
	"testing"
)

func TestPageMetaPrefersOGTags(t *testing.T) {
	html := []byte(`
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG Desc">
    <meta property="og:image" content="/img/og.png">
  </head>
</html>`)

	meta, err := PageMeta(html)
	if err != nil {
		t.Fatalf("PageMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG Desc" || meta.ImageURL != "/img/og.png" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestPageMetaFallsBackToTitleTag(t *testing.T) {
	html := []byte(`<html><head><title> Plain Title </title><meta name="description" content="plain desc"></head></html>`)

	meta, err := PageMeta(html)
	if err != nil {
		t.Fatalf("PageMeta: %v", err)
	}
	if meta.Title != "Plain Title" {
		t.Fatalf("expected title fallback, got %q", meta.Title)
	}
	if meta.Description != "plain desc" {
		t.Fatalf("expected meta description fallback, got %q", meta.Description)
	}
	if meta.ImageURL != "" {
		t.Fatalf("expected empty image url, got %q", meta.ImageURL)
	}
}

func TestSelectReturnsTrimmedMatches(t *testing.T) {
	html := []byte(`<html><body><ul><li> one </li><li>two</li><li>   </li></ul></body></html>`)

	got, err := Select(html, "li")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %#v", len(got), got)
	}
	if got[0] != "one" || got[1] != "two" {
		t.Fatalf("unexpected matches %#v", got)
	}
}

func TestSelectRejectsEmptySelector(t *testing.T) {
	if _, err := Select([]byte("<html></html>"), "   "); err == nil {
		t.Fatalf("expected error for empty selector")
	}
}

func TestSelectLimitsBody(t *testing.T) {
	body := append([]byte("<html><body><p>lead</p>"), bytes.Repeat([]byte("a"), maxHTMLBytes)...)

	got, err := Select(body, "p")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 1 || got[0] != "lead" {
		t.Fatalf("unexpected matches %#v", got)
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	got := ResolveURL("/img.png", "https://example.com/articles/1")
	if got != "https://example.com/img.png" {
		t.Fatalf("ResolveURL got %q", got)
	}

	if got := ResolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestResolveURLKeepsAbsolute(t *testing.T) {
	got := ResolveURL("https://cdn.example.com/x.png", "https://example.com")
	if got != "https://cdn.example.com/x.png" {
		t.Fatalf("ResolveURL got %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
