package scaffold

import (
	"bytes"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	slug "github.com/goliatone/go-slug"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

//go:embed all:starter
var starterFS embed.FS

// ErrProjectNameInvalid rejects names that normalize to nothing.
var ErrProjectNameInvalid = errors.New("scaffold: project name is invalid")

// ErrProjectExists rejects scaffolding over an existing non-empty target
// without force.
var ErrProjectExists = errors.New("scaffold: project directory already exists")

// Project describes a new application to generate.
type Project struct {
	Name   string
	Dir    string
	Secret string
}

// NewProject normalizes name into a project slug and generates the app
// secret written into the starter config.
func NewProject(name, parentDir string) (Project, error) {
	normalized, err := slug.Normalize(strings.TrimSpace(name))
	if err != nil || normalized == "" {
		return Project{}, ErrProjectNameInvalid
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Project{}, fmt.Errorf("scaffold: generate secret: %w", err)
	}

	return Project{
		Name:   normalized,
		Dir:    filepath.Join(parentDir, normalized),
		Secret: hex.EncodeToString(buf),
	}, nil
}

// Generator writes starter projects to disk.
type Generator struct {
	logger interfaces.Logger
}

// GeneratorOption configures the generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger overrides the default noop logger.
func WithGeneratorLogger(logger interfaces.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator constructs a project generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Create writes the starter project. Existing files are left alone unless
// force is set; an existing non-empty directory without force is an error.
func (g *Generator) Create(project Project, force bool) error {
	if !force {
		if entries, err := os.ReadDir(project.Dir); err == nil && len(entries) > 0 {
			return fmt.Errorf("%w: %s", ErrProjectExists, project.Dir)
		}
	}

	dirs := []string{
		project.Dir,
		filepath.Join(project.Dir, "templates"),
		filepath.Join(project.Dir, "static"),
		filepath.Join(project.Dir, "migrations"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scaffold: create %s: %w", dir, err)
		}
	}

	if err := g.writeStarter(project, force); err != nil {
		return err
	}
	if err := ensureGitignore(project); err != nil {
		return err
	}

	g.logger.Info("project created", "name", project.Name, "dir", project.Dir)
	return nil
}

func (g *Generator) writeStarter(project Project, force bool) error {
	return fs.WalkDir(starterFS, "starter", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "starter/")
		templated := strings.HasSuffix(rel, ".tmpl")
		dst := filepath.Join(project.Dir, strings.TrimSuffix(rel, ".tmpl"))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		content, err := fs.ReadFile(starterFS, p)
		if err != nil {
			return err
		}
		if templated {
			content, err = renderStarter(rel, content, project)
			if err != nil {
				return err
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return err
		}
		g.logger.Debug("file written", "path", dst)
		return nil
	})
}

func renderStarter(name string, content []byte, project Project) ([]byte, error) {
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("scaffold: parse starter %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, project); err != nil {
		return nil, fmt.Errorf("scaffold: render starter %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func ensureGitignore(project Project) error {
	entries := []string{
		"*.db",
		"*.db-journal",
	}

	path := filepath.Join(project.Dir, ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(path, []byte(strings.Join(entries, "\n")+"\n"), 0o644)
		}
		return err
	}

	present := map[string]bool{}
	for _, line := range strings.Split(string(existing), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var out strings.Builder
	out.WriteString(string(existing))
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		out.WriteByte('\n')
	}
	for _, entry := range entries {
		if !present[entry] {
			out.WriteString(entry)
			out.WriteByte('\n')
		}
	}
	return os.WriteFile(path, []byte(out.String()), 0o644)
}
