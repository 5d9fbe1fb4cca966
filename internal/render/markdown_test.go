package render_test

import (
	"strings"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/render"
)

func TestMarkdownRender(t *testing.T) {
	md := render.NewMarkdown(render.MarkdownOptions{})
	out, err := md.Render([]byte("# Welcome\n\nSome **bold** text."))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestMarkdownAutoHeadingID(t *testing.T) {
	md := render.NewMarkdown(render.MarkdownOptions{})
	out, err := md.Render([]byte("## Getting Started"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `id="getting-started"`) {
		t.Fatalf("expected heading id, got %q", out)
	}
}

func TestMarkdownRawHTMLStripped(t *testing.T) {
	md := render.NewMarkdown(render.MarkdownOptions{})
	out, err := md.Render([]byte("<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected raw HTML to be suppressed, got %q", out)
	}

	unsafe := render.NewMarkdown(render.MarkdownOptions{Unsafe: true})
	out, err = unsafe.Render([]byte("<em>kept</em>"))
	if err != nil {
		t.Fatalf("render unsafe: %v", err)
	}
	if !strings.Contains(string(out), "<em>kept</em>") {
		t.Fatalf("expected raw HTML passthrough, got %q", out)
	}
}

func TestMarkdownTaskList(t *testing.T) {
	md := render.NewMarkdown(render.MarkdownOptions{})
	out, err := md.Render([]byte("- [x] done\n- [ ] todo"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "checkbox") {
		t.Fatalf("expected task list checkboxes, got %q", out)
	}
}

func TestMarkdownParseDocument(t *testing.T) {
	source := []byte("---\ntitle: About\nlayout: page.html\n---\n# About us\n")

	md := render.NewMarkdown(render.MarkdownOptions{})
	meta, body, err := md.ParseDocument(source)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if meta["title"] != "About" || meta["layout"] != "page.html" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if !strings.Contains(string(body), "<h1") {
		t.Fatalf("expected rendered body, got %q", body)
	}
}

func TestMarkdownParseDocumentWithoutFrontmatter(t *testing.T) {
	md := render.NewMarkdown(render.MarkdownOptions{})
	meta, body, err := md.ParseDocument([]byte("plain *text*"))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if len(meta) != 0 {
		t.Fatalf("expected empty metadata, got %v", meta)
	}
	if !strings.Contains(string(body), "<em>text</em>") {
		t.Fatalf("unexpected body %q", body)
	}
}
