package orm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// DB wraps a bun database handle together with the model registry used for
// table creation and admin resource discovery.
type DB struct {
	bun      *bun.DB
	registry *Registry
	logger   interfaces.Logger
}

// DBOption configures the database wrapper.
type DBOption func(*DB)

// WithDBLogger overrides the default noop logger.
func WithDBLogger(logger interfaces.Logger) DBOption {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRegistry supplies a pre-populated model registry.
func WithRegistry(registry *Registry) DBOption {
	return func(d *DB) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// Open connects to the configured database and returns the wrapper handle.
func Open(cfg runtimeconfig.DatabaseConfig, opts ...DBOption) (*DB, error) {
	bunDB, err := openBun(cfg)
	if err != nil {
		return nil, err
	}
	return NewDB(bunDB, opts...), nil
}

// NewDB wraps an existing bun handle. Tests use this with an in-memory
// sqlite database.
func NewDB(bunDB *bun.DB, opts ...DBOption) *DB {
	d := &DB{
		bun:      bunDB,
		registry: NewRegistry(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func openBun(cfg runtimeconfig.DatabaseConfig) (*bun.DB, error) {
	var bunDB *bun.DB

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case runtimeconfig.DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("orm: open sqlite database: %w", err)
		}
		bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		bunDB.SetMaxOpenConns(1)
	case runtimeconfig.DriverPostgres:
		sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		bunDB = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("orm: unsupported driver %q", cfg.Driver)
	}

	if cfg.Echo {
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return bunDB, nil
}

// Bun exposes the underlying handle for query building.
func (d *DB) Bun() *bun.DB {
	return d.bun
}

// Registry exposes the model registry.
func (d *DB) Registry() *Registry {
	return d.registry
}

// Register adds a model under the given resource name.
func (d *DB) Register(name string, model any) error {
	if err := d.registry.Register(name, model); err != nil {
		return err
	}
	d.logger.Debug("model registered", "resource", name)
	return nil
}

// CreateTables issues CREATE TABLE IF NOT EXISTS for every registered model.
func (d *DB) CreateTables(ctx context.Context) error {
	for _, resource := range d.registry.Resources() {
		if _, err := d.bun.NewCreateTable().
			Model(resource.Model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("orm: create table for %s: %w", resource.Name, err)
		}
	}
	return nil
}

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.bun.PingContext(ctx); err != nil {
		return fmt.Errorf("orm: ping database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.bun.Close()
}
