package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// ErrTemplateNotFound reports a render request for a template that does not
// exist under the configured directory.
var ErrTemplateNotFound = errors.New("render: template not found")

// TemplateNotFoundError carries the missing template name alongside
// ErrTemplateNotFound so callers can surface it in error pages.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("render: template %q not found", e.Name)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// Engine renders HTML templates from a directory with a registerable filter
// set exposed to templates as functions.
type Engine struct {
	dir      string
	logger   interfaces.Logger
	markdown *Markdown

	mu      sync.RWMutex
	funcs   template.FuncMap
	cache   map[string]*template.Template
	caching bool
}

// EngineOption configures the engine instance.
type EngineOption func(*Engine)

// WithEngineLogger overrides the default noop logger.
func WithEngineLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEngineCaching toggles parsed-template caching. Caching is on by
// default; development servers disable it so template edits show up without
// restarting.
func WithEngineCaching(enabled bool) EngineOption {
	return func(e *Engine) {
		e.caching = enabled
	}
}

// WithEngineMarkdown overrides the markdown renderer backing the markdown
// filter.
func WithEngineMarkdown(md *Markdown) EngineOption {
	return func(e *Engine) {
		if md != nil {
			e.markdown = md
		}
	}
}

// NewEngine constructs a template engine rooted at dir.
func NewEngine(dir string, opts ...EngineOption) *Engine {
	e := &Engine{
		dir:      dir,
		logger:   logging.NoOp(),
		markdown: NewMarkdown(MarkdownOptions{}),
		cache:    map[string]*template.Template{},
		caching:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.funcs = e.defaultFuncs()
	return e
}

// RegisterFilter makes fn available to templates under the given name.
// Registering after templates have rendered invalidates the cache.
func (e *Engine) RegisterFilter(name string, fn any) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("render: filter name is required")
	}
	if fn == nil {
		return fmt.Errorf("render: filter %q requires a function", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
	e.cache = map[string]*template.Template{}
	return nil
}

// Render executes the named template with data and returns the HTML output.
func (e *Engine) Render(name string, data any) ([]byte, error) {
	tmpl, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: execute %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Exists reports whether the named template is present on disk.
func (e *Engine) Exists(name string) bool {
	path, err := e.resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (e *Engine) lookup(name string) (*template.Template, error) {
	if e.caching {
		e.mu.RLock()
		cached, ok := e.cache[name]
		e.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	tmpl, err := e.parse(name)
	if err != nil {
		return nil, err
	}

	if e.caching {
		e.mu.Lock()
		e.cache[name] = tmpl
		e.mu.Unlock()
	}
	return tmpl, nil
}

func (e *Engine) parse(name string) (*template.Template, error) {
	path, err := e.resolve(name)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("render: read %q: %w", name, err)
	}

	e.mu.RLock()
	funcs := make(template.FuncMap, len(e.funcs))
	for key, fn := range e.funcs {
		funcs[key] = fn
	}
	e.mu.RUnlock()

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(source))
	if err != nil {
		return nil, fmt.Errorf("render: parse %q: %w", name, err)
	}

	e.logger.Debug("template parsed", "template", name)
	return tmpl, nil
}

func (e *Engine) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &TemplateNotFoundError{Name: name}
	}
	cleaned := filepath.Clean("/" + name)
	if strings.Contains(cleaned, "..") {
		return "", &TemplateNotFoundError{Name: name}
	}
	return filepath.Join(e.dir, cleaned), nil
}

func (e *Engine) defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(value string) string {
			if value == "" {
				return value
			}
			return strings.ToUpper(value[:1]) + value[1:]
		},
		"date": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
		"safe": func(value string) template.HTML {
			return template.HTML(value)
		},
		"markdown": func(source string) (template.HTML, error) {
			rendered, err := e.markdown.Render([]byte(source))
			if err != nil {
				return "", err
			}
			return template.HTML(rendered), nil
		},
	}
}
