package runtimeconfig

import (
	"errors"
	"strings"
)

// ErrAppNameRequired indicates the project configuration is missing a name.
var ErrAppNameRequired = errors.New("jsweb config: app name is required")

// ErrAppSecretRequired ensures signed cookies never run with an empty key.
var ErrAppSecretRequired = errors.New("jsweb config: app secret is required when sessions are enabled")

// ErrServerPortInvalid rejects ports outside the dialable range.
var ErrServerPortInvalid = errors.New("jsweb config: server port must be between 1 and 65535")

// ErrStaticURLInvalid requires the static prefix to be rooted.
var ErrStaticURLInvalid = errors.New("jsweb config: static url must start with '/'")

// ErrDatabaseDriverUnknown rejects drivers without a registered dialect.
var ErrDatabaseDriverUnknown = errors.New("jsweb config: database driver is invalid")

// ErrDatabaseDSNRequired requires a DSN whenever the database is enabled.
var ErrDatabaseDSNRequired = errors.New("jsweb config: database dsn is required when database is enabled")

// ErrSessionStoreUnknown rejects unrecognised session store kinds.
var ErrSessionStoreUnknown = errors.New("jsweb config: session store is invalid")

// ErrSessionStoreRequiresDatabase keeps the bun-backed store behind the database flag.
var ErrSessionStoreRequiresDatabase = errors.New("jsweb config: database session store requires the database to be enabled")

// ErrAdminRequiresSessions keeps the admin API behind authenticated sessions.
var ErrAdminRequiresSessions = errors.New("jsweb config: admin feature requires sessions to be enabled")

// ErrCSRFRequiresSessions ties token storage to the session layer.
var ErrCSRFRequiresSessions = errors.New("jsweb config: csrf feature requires sessions to be enabled")

var ErrLoggingProviderRequired = errors.New("jsweb config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("jsweb config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("jsweb config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("jsweb config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for a JsWeb project.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	App       AppConfig      `yaml:"app"`
	Server    ServerConfig   `yaml:"server"`
	Static    StaticConfig   `yaml:"static"`
	Templates TemplateConfig `yaml:"templates"`
	Database  DatabaseConfig `yaml:"database"`
	Session   SessionConfig  `yaml:"session"`
	Admin     AdminConfig    `yaml:"admin"`
	Logging   LoggingConfig  `yaml:"logging"`
	Features  Features       `yaml:"features"`
}

// AppConfig captures project identity and debug behaviour.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `yaml:"debug"`
	Secret  string `yaml:"secret"`
}

// ServerConfig captures bind address and shutdown behaviour.
type ServerConfig struct {
	Host                 string `yaml:"host"`
	Port                 int    `yaml:"port"`
	ShutdownGraceSeconds int    `yaml:"shutdown_grace_seconds"`
}

// StaticConfig maps the public asset prefix onto a directory.
type StaticConfig struct {
	URL string `yaml:"url"`
	Dir string `yaml:"dir"`
}

// TemplateConfig points the renderer at the project template directory.
type TemplateConfig struct {
	Dir string `yaml:"dir"`
}

// Database driver names accepted by the ORM layer.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DatabaseConfig lists connection settings for the ORM layer.
type DatabaseConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	Echo          bool   `yaml:"echo"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// SessionConfig captures cookie and store behaviour for server-side sessions.
type SessionConfig struct {
	CookieName    string `yaml:"cookie_name"`
	MaxAgeSeconds int    `yaml:"max_age_seconds"`
	Secure        bool   `yaml:"secure"`
	Store         string `yaml:"store"`
}

// AdminConfig captures mount details for the generated admin API.
type AdminConfig struct {
	BasePath string `yaml:"base_path"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles module functionality.
type Features struct {
	Sessions bool `yaml:"sessions"`
	CSRF     bool `yaml:"csrf"`
	Admin    bool `yaml:"admin"`
	Logger   bool `yaml:"logger"`
}

// DefaultConfig returns the defaults a freshly scaffolded project runs with.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "jsweb-app",
			Version: "0.1.0",
			Debug:   true,
		},
		Server: ServerConfig{
			Host:                 "127.0.0.1",
			Port:                 8000,
			ShutdownGraceSeconds: 10,
		},
		Static: StaticConfig{
			URL: "/static",
			Dir: "static",
		},
		Templates: TemplateConfig{
			Dir: "templates",
		},
		Database: DatabaseConfig{
			Enabled:       true,
			Driver:        "sqlite3",
			DSN:           "file:jsweb.db?_fk=1",
			MigrationsDir: "migrations",
		},
		Session: SessionConfig{
			CookieName:    "jswebsession",
			MaxAgeSeconds: 86400,
			Store:         "memory",
		},
		Admin: AdminConfig{
			BasePath: "/admin",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Features: Features{
			Sessions: true,
			CSRF:     true,
			Admin:    true,
			Logger:   true,
		},
	}
}

// Validate applies cross-field consistency rules.
func (c Config) Validate() error {
	if strings.TrimSpace(c.App.Name) == "" {
		return ErrAppNameRequired
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrServerPortInvalid
	}
	if url := strings.TrimSpace(c.Static.URL); url != "" && !strings.HasPrefix(url, "/") {
		return ErrStaticURLInvalid
	}

	if c.Database.Enabled {
		switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
		case DriverSQLite, DriverPostgres:
		default:
			return ErrDatabaseDriverUnknown
		}
		if strings.TrimSpace(c.Database.DSN) == "" {
			return ErrDatabaseDSNRequired
		}
	}

	if c.Features.Sessions {
		if strings.TrimSpace(c.App.Secret) == "" {
			return ErrAppSecretRequired
		}
		switch strings.ToLower(strings.TrimSpace(c.Session.Store)) {
		case "", "memory":
		case "database":
			if !c.Database.Enabled {
				return ErrSessionStoreRequiresDatabase
			}
		default:
			return ErrSessionStoreUnknown
		}
	}

	if c.Features.Admin && !c.Features.Sessions {
		return ErrAdminRequiresSessions
	}
	if c.Features.CSRF && !c.Features.Sessions {
		return ErrCSRFRequiresSessions
	}

	if c.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(c.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return ErrLoggingProviderUnknown
		}
		switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
		case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		default:
			return ErrLoggingLevelInvalid
		}
		switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
		case "", "json", "console", "pretty":
		default:
			return ErrLoggingFormatInvalid
		}
	}

	return nil
}
