package content

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	r := NewRenderer()

	html := r.Render("**bold** and _italic_")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected strong tag, got %q", html)
	}
	if !strings.Contains(html, "<em>italic</em>") {
		t.Fatalf("expected em tag, got %q", html)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer()

	html := r.Render("hello <script>alert(1)</script> world")
	if strings.Contains(html, "<script") {
		t.Fatalf("script tag leaked: %q", html)
	}
	if !strings.Contains(html, "hello") || !strings.Contains(html, "world") {
		t.Fatalf("text content lost: %q", html)
	}
}

func TestRenderStripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	html := r.Render(`<img src="x" onerror="alert(1)">cat`)
	if strings.Contains(html, "onerror") {
		t.Fatalf("event handler leaked: %q", html)
	}
}

func TestRenderKeepsHardLineBreaks(t *testing.T) {
	r := NewRenderer()

	html := r.Render("line one\nline two")
	if !strings.Contains(html, "<br") {
		t.Fatalf("expected hard line break, got %q", html)
	}
}

func TestRenderLinks(t *testing.T) {
	r := NewRenderer()

	html := r.Render("[site](https://example.org)")
	if !strings.Contains(html, `href="https://example.org"`) {
		t.Fatalf("expected link, got %q", html)
	}

	html = r.Render("[x](javascript:alert(1))")
	if strings.Contains(html, "javascript:") {
		t.Fatalf("javascript scheme leaked: %q", html)
	}
}
