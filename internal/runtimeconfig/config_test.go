package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsNeedSecretForSessions(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAppSecretRequired) {
		t.Fatalf("expected ErrAppSecretRequired, got %v", err)
	}
}

func TestConfigValidate_AcceptsDefaultsWithSecret(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownDatabaseDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"
	cfg.Database.Driver = "oracle"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrDatabaseDriverUnknown) {
		t.Fatalf("expected ErrDatabaseDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsPortOutOfRange(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"
	cfg.Server.Port = 0

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrServerPortInvalid) {
		t.Fatalf("expected ErrServerPortInvalid, got %v", err)
	}
}

func TestConfigValidate_AdminRequiresSessions(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"
	cfg.Features.Sessions = false
	cfg.Features.CSRF = false

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAdminRequiresSessions) {
		t.Fatalf("expected ErrAdminRequiresSessions, got %v", err)
	}
}

func TestConfigValidate_DatabaseSessionStoreRequiresDatabase(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"
	cfg.Database.Enabled = false
	cfg.Session.Store = "database"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrSessionStoreRequiresDatabase) {
		t.Fatalf("expected ErrSessionStoreRequiresDatabase, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.App.Secret = "s3cret"
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, runtimeconfig.ConfigFileName)
	contents := `
app:
  name: Blog
  secret: s3cret
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.App.Name != "Blog" {
		t.Fatalf("expected app name Blog, got %q", cfg.App.Name)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("expected default host preserved, got %q", cfg.Server.Host)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Fatalf("expected default driver preserved, got %q", cfg.Database.Driver)
	}
}

func TestLoad_EnvironmentOverridesListenAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, runtimeconfig.ConfigFileName)
	contents := `
app:
  name: Blog
  secret: s3cret
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(runtimeconfig.EnvServerHost, "0.0.0.0")
	t.Setenv(runtimeconfig.EnvServerPort, "9100")
	t.Setenv(runtimeconfig.EnvDebug, "true")

	cfg, err := runtimeconfig.LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("expected host override, got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if !cfg.App.Debug {
		t.Fatal("expected debug override")
	}
}

func TestLoad_RejectsUnknownSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, runtimeconfig.ConfigFileName)
	contents := `
app:
  name: Blog
  secret: s3cret
databse:
  driver: sqlite3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runtimeconfig.LoadDir(dir); err == nil {
		t.Fatal("expected schema validation error for misspelled section")
	}
}

func TestLoad_MissingFileSurfacesError(t *testing.T) {
	if _, err := runtimeconfig.LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
