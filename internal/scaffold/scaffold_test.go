package scaffold_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/scaffold"
)

func TestNewProjectNormalizesName(t *testing.T) {
	project, err := scaffold.NewProject("My Blog App", t.TempDir())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	if project.Name != "my-blog-app" {
		t.Fatalf("unexpected name %q", project.Name)
	}
	if len(project.Secret) != 64 {
		t.Fatalf("unexpected secret length %d", len(project.Secret))
	}
	if filepath.Base(project.Dir) != "my-blog-app" {
		t.Fatalf("unexpected dir %q", project.Dir)
	}
}

func TestNewProjectRejectsEmptyName(t *testing.T) {
	if _, err := scaffold.NewProject("   ", t.TempDir()); !errors.Is(err, scaffold.ErrProjectNameInvalid) {
		t.Fatalf("expected ErrProjectNameInvalid, got %v", err)
	}
}

func TestCreateWritesStarterProject(t *testing.T) {
	project, err := scaffold.NewProject("demo", t.TempDir())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}

	if err := scaffold.NewGenerator().Create(project, false); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, rel := range []string{
		"jsweb.yaml",
		"go.mod",
		"main.go",
		"models.go",
		".gitignore",
		filepath.Join("templates", "welcome.html"),
		filepath.Join("templates", "errors", "404.html"),
		filepath.Join("static", "global.css"),
	} {
		if _, err := os.Stat(filepath.Join(project.Dir, rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
	if info, err := os.Stat(filepath.Join(project.Dir, "migrations")); err != nil || !info.IsDir() {
		t.Fatalf("expected migrations dir: %v", err)
	}

	config, err := os.ReadFile(filepath.Join(project.Dir, "jsweb.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(config), "name: demo") {
		t.Fatal("expected project name in config")
	}
	if !strings.Contains(string(config), project.Secret) {
		t.Fatal("expected generated secret in config")
	}

	mainGo, err := os.ReadFile(filepath.Join(project.Dir, "main.go"))
	if err != nil {
		t.Fatalf("read main.go: %v", err)
	}
	if !strings.Contains(string(mainGo), `"github.com/jsweb-dev/jsweb"`) {
		t.Fatal("expected framework import in main.go")
	}
	if strings.Contains(string(mainGo), "{{") {
		t.Fatal("expected template placeholders to be rendered")
	}

	goMod, err := os.ReadFile(filepath.Join(project.Dir, "go.mod"))
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	if !strings.Contains(string(goMod), "module demo") {
		t.Fatal("expected module path named after the project")
	}
	if !strings.Contains(string(goMod), "github.com/jsweb-dev/jsweb") {
		t.Fatal("expected framework requirement in go.mod")
	}
}

func TestCreateRefusesExistingProject(t *testing.T) {
	project, err := scaffold.NewProject("demo", t.TempDir())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}

	generator := scaffold.NewGenerator()
	if err := generator.Create(project, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := generator.Create(project, false); !errors.Is(err, scaffold.ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists, got %v", err)
	}
	if err := generator.Create(project, true); err != nil {
		t.Fatalf("force create: %v", err)
	}
}

func TestCreateRefusesNonEmptyDirectory(t *testing.T) {
	project, err := scaffold.NewProject("demo", t.TempDir())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	if err := os.MkdirAll(project.Dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	custom := []byte("# custom config\n")
	if err := os.WriteFile(filepath.Join(project.Dir, "jsweb.yaml"), custom, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err = scaffold.NewGenerator().Create(project, false)
	if !errors.Is(err, scaffold.ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists for non-empty dir, got %v", err)
	}
}
