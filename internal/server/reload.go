package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// reloadChildEnv marks the supervised child process so it runs the server
// directly instead of spawning another supervisor.
const reloadChildEnv = "JSWEB_RELOAD_CHILD"

// IsReloadChild reports whether this process is a supervised child.
func IsReloadChild() bool {
	return os.Getenv(reloadChildEnv) == "1"
}

// Reloader supervises a child copy of the current binary and restarts it
// when a watched file changes.
type Reloader struct {
	dirs     []string
	exts     map[string]bool
	debounce time.Duration
	logger   interfaces.Logger
}

// ReloaderOption configures the reloader.
type ReloaderOption func(*Reloader)

// WithReloaderLogger overrides the default noop logger.
func WithReloaderLogger(logger interfaces.Logger) ReloaderOption {
	return func(r *Reloader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebounce overrides the restart debounce window.
func WithDebounce(window time.Duration) ReloaderOption {
	return func(r *Reloader) {
		if window > 0 {
			r.debounce = window
		}
	}
}

// NewReloader watches the given directories. Only Go sources, templates,
// and config files trigger restarts.
func NewReloader(dirs []string, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		dirs:     dirs,
		debounce: 500 * time.Millisecond,
		logger:   logging.NoOp(),
		exts: map[string]bool{
			".go":   true,
			".html": true,
			".md":   true,
			".yaml": true,
			".yml":  true,
			".css":  true,
			".js":   true,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run spawns the child and restarts it on changes until the context is
// cancelled. It returns the child's final error when no restart is pending.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range r.dirs {
		if err := watchRecursive(watcher, dir); err != nil {
			r.logger.Warn("watch directory", "dir", dir, "error", err)
		}
	}

	restart := make(chan struct{}, 1)
	bounce := newDebouncer(r.debounce, func() {
		select {
		case restart <- struct{}{}:
		default:
		}
	})
	defer bounce.stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watchRecursive(watcher, event.Name)
						continue
					}
				}
				if r.relevant(event.Name) {
					r.logger.Debug("change detected", "path", event.Name)
					bounce.trigger()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("watcher error", "error", err)
			}
		}
	}()

	for {
		child, err := r.spawn(ctx)
		if err != nil {
			return err
		}

		exited := make(chan error, 1)
		go func() {
			exited <- child.Wait()
		}()

		select {
		case <-ctx.Done():
			_ = child.Process.Signal(os.Interrupt)
			<-exited
			return nil
		case err := <-exited:
			// Child died on its own, give up instead of crash-looping.
			return err
		case <-restart:
			r.logger.Info("restarting server")
			_ = child.Process.Signal(os.Interrupt)
			<-exited
		}
	}
}

func (r *Reloader) spawn(ctx context.Context) (*exec.Cmd, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("server: resolve executable: %w", err)
	}

	child := exec.CommandContext(ctx, executable, os.Args[1:]...)
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Stdin = os.Stdin
	child.Env = append(os.Environ(), reloadChildEnv+"=1")
	if err := child.Start(); err != nil {
		return nil, fmt.Errorf("server: start child: %w", err)
	}
	return child, nil
}

func (r *Reloader) relevant(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return r.exts[ext]
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
