package render_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/render"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestEngineRender(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "hello.html", "<h1>Hello {{.Name}}</h1>")

	engine := render.NewEngine(dir)
	out, err := engine.Render("hello.html", map[string]any{"Name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "<h1>Hello Ada</h1>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRenderEscapesValues(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.html", "{{.Body}}")

	engine := render.NewEngine(dir)
	out, err := engine.Render("page.html", map[string]any{"Body": "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected escaped output, got %q", out)
	}
}

func TestEngineMissingTemplate(t *testing.T) {
	engine := render.NewEngine(t.TempDir())

	_, err := engine.Render("missing.html", nil)
	if !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	var notFound *render.TemplateNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected TemplateNotFoundError, got %T", err)
	}
	if notFound.Name != "missing.html" {
		t.Fatalf("unexpected name %q", notFound.Name)
	}
}

func TestEngineNestedTemplateName(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, filepath.Join("users", "show.html"), "user {{.ID}}")

	engine := render.NewEngine(dir)
	out, err := engine.Render("users/show.html", map[string]any{"ID": 7})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "user 7" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineDefaultFilters(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "filters.html", `{{upper .Word}} {{lower "LOUD"}} {{safe .Raw}}`)

	engine := render.NewEngine(dir)
	out, err := engine.Render("filters.html", map[string]any{
		"Word": "quiet",
		"Raw":  "<em>kept</em>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "QUIET loud <em>kept</em>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineMarkdownFilter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "post.html", "{{markdown .Body}}")

	engine := render.NewEngine(dir)
	out, err := engine.Render("post.html", map[string]any{"Body": "# Title"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<h1") {
		t.Fatalf("expected heading in output, got %q", out)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "shout.html", "{{shout .Word}}")

	engine := render.NewEngine(dir)
	if err := engine.RegisterFilter("shout", func(s string) string { return s + "!" }); err != nil {
		t.Fatalf("register filter: %v", err)
	}

	out, err := engine.Render("shout.html", map[string]any{"Word": "go"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "go!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRegisterFilterValidation(t *testing.T) {
	engine := render.NewEngine(t.TempDir())
	if err := engine.RegisterFilter("", strings.ToUpper); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := engine.RegisterFilter("nilfn", nil); err == nil {
		t.Fatal("expected error for nil function")
	}
}

func TestEngineCachingDisabledPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "live.html", "one")

	engine := render.NewEngine(dir, render.WithEngineCaching(false))
	if out, err := engine.Render("live.html", nil); err != nil || string(out) != "one" {
		t.Fatalf("first render: %q %v", out, err)
	}

	writeTemplate(t, dir, "live.html", "two")
	out, err := engine.Render("live.html", nil)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := string(out); got != "two" {
		t.Fatalf("expected updated template, got %q", got)
	}
}

func TestEngineExists(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "real.html", "x")

	engine := render.NewEngine(dir)
	if !engine.Exists("real.html") {
		t.Fatal("expected template to exist")
	}
	if engine.Exists("ghost.html") {
		t.Fatal("expected template to be missing")
	}
}
