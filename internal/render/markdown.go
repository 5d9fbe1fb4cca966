package render

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownOptions controls the goldmark engine used by the markdown filter
// and markdown views.
type MarkdownOptions struct {
	HardWraps bool
	// Unsafe passes raw HTML through. Rendered output is injected into
	// templates as trusted HTML, so this defaults to off.
	Unsafe bool
}

// Markdown renders markdown content into HTML. The type is stateless so a
// single instance can be shared across requests without locking.
type Markdown struct {
	engine goldmark.Markdown
}

// NewMarkdown builds a markdown renderer with GFM-style defaults.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Markdown{engine: goldmark.New(engineOptions...)}
}

// Render converts markdown into HTML.
func (m *Markdown) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render: markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDocument splits a markdown view into frontmatter metadata and rendered
// HTML. Files without frontmatter yield empty metadata.
func (m *Markdown) ParseDocument(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("render: parse frontmatter: %w", err)
	}
	rendered, err := m.Render(body)
	if err != nil {
		return nil, nil, err
	}
	return meta, rendered, nil
}
