package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jsweb-dev/jsweb/internal/admin"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/logging/gologger"
	"github.com/jsweb-dev/jsweb/internal/orm"
	"github.com/jsweb-dev/jsweb/internal/render"
	"github.com/jsweb-dev/jsweb/internal/router"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/internal/session"
	"github.com/jsweb-dev/jsweb/internal/web"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Handler is the signature application route handlers implement.
type Handler = router.Handler

// App wires the router, template engine, static files, sessions, ORM, and
// admin API into one http.Handler.
type App struct {
	config   runtimeconfig.Config
	router   *router.Router
	engine   *render.Engine
	static   *web.Static
	sessions *session.Manager
	db       *orm.DB
	admin    *admin.API

	adminHandler http.Handler
	store        interfaces.SessionStore
	provider     interfaces.LoggerProvider
	logger       interfaces.Logger
	requestLog   interfaces.Logger
	routeLog     interfaces.Logger
}

// Option overrides pieces of the app during construction.
type Option func(*options)

type options struct {
	provider     interfaces.LoggerProvider
	bunDB        *bun.DB
	sessionStore interfaces.SessionStore
	adminOpts    []admin.Option
}

// WithLoggerProvider supplies a custom logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithBunDB reuses an existing database handle instead of opening one from
// config. Tests pass an in-memory sqlite handle this way.
func WithBunDB(db *bun.DB) Option {
	return func(o *options) {
		o.bunDB = db
	}
}

// WithSessionStore overrides the store picked from config.
func WithSessionStore(store interfaces.SessionStore) Option {
	return func(o *options) {
		o.sessionStore = store
	}
}

// WithAdminOptions forwards extra options to the admin API.
func WithAdminOptions(opts ...admin.Option) Option {
	return func(o *options) {
		o.adminOpts = append(o.adminOpts, opts...)
	}
}

// New builds an application from a validated config.
func New(cfg runtimeconfig.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if provider == nil && cfg.Features.Logger {
		var err error
		provider, err = gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("app: build logger provider: %w", err)
		}
	}

	a := &App{
		config:     cfg,
		router:     router.New(),
		logger:     logging.ModuleLogger(provider, ""),
		requestLog: logging.ServerLogger(provider),
		routeLog:   logging.RouterLogger(provider),
		provider:   provider,
	}

	a.engine = render.NewEngine(
		cfg.Templates.Dir,
		render.WithEngineCaching(!cfg.App.Debug),
		render.WithEngineLogger(logging.RenderLogger(provider)),
	)

	if dir := strings.TrimSpace(cfg.Static.Dir); dir != "" {
		a.static = web.NewStatic(cfg.Static.URL, dir)
	}

	if cfg.Database.Enabled {
		if o.bunDB != nil {
			a.db = orm.NewDB(o.bunDB, orm.WithDBLogger(logging.ORMLogger(provider)))
		} else {
			db, err := orm.Open(cfg.Database, orm.WithDBLogger(logging.ORMLogger(provider)))
			if err != nil {
				return nil, err
			}
			a.db = db
		}
	}

	if cfg.Features.Sessions {
		store := o.sessionStore
		if store == nil {
			switch strings.ToLower(strings.TrimSpace(cfg.Session.Store)) {
			case "database":
				store = session.NewBunStore(a.db.Bun())
			default:
				store = session.NewMemoryStore()
			}
		}
		manager, err := session.NewManager(
			cfg.App.Secret,
			cfg.Session,
			store,
			session.WithManagerLogger(logging.SessionLogger(provider)),
		)
		if err != nil {
			return nil, err
		}
		a.sessions = manager
		a.store = store
	}

	if cfg.Features.Admin && a.db != nil {
		adminOpts := []admin.Option{
			admin.WithBasePath(joinBase(cfg.Admin.BasePath, "api")),
			admin.WithLogger(logging.AdminLogger(provider)),
			admin.WithAuthorizer(a.authorizeAdmin),
		}
		adminOpts = append(adminOpts, o.adminOpts...)
		a.admin = admin.NewAPI(a.db, adminOpts...)
		a.adminHandler = a.admin.Handler()
	}

	return a, nil
}

// Config returns the config the app was built with.
func (a *App) Config() runtimeconfig.Config {
	return a.config
}

// DB returns the database handle, nil when the database is disabled.
func (a *App) DB() *orm.DB {
	return a.db
}

// Sessions returns the session manager, nil when sessions are disabled.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Engine returns the template engine.
func (a *App) Engine() *render.Engine {
	return a.engine
}

// Logger returns the root application logger.
func (a *App) Logger() interfaces.Logger {
	return a.logger
}

// LoggerProvider returns the provider for callers that need namespaced
// loggers of their own.
func (a *App) LoggerProvider() interfaces.LoggerProvider {
	return a.provider
}

// RegisterModel registers a model for table creation and the admin API.
func (a *App) RegisterModel(name string, model any) error {
	if a.db == nil {
		return fmt.Errorf("app: database is disabled")
	}
	return a.db.Register(name, model)
}

// Bootstrap prepares runtime state: it verifies the database connection,
// creates registered model tables, and sets up the database session store.
func (a *App) Bootstrap(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.Ping(ctx); err != nil {
			return err
		}
		if err := a.db.CreateTables(ctx); err != nil {
			return err
		}
	}
	if migratable, ok := a.store.(interface{ Migrate(context.Context) error }); ok {
		if err := migratable.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// authorizeAdmin requires a session flagged as admin.
func (a *App) authorizeAdmin(r *http.Request) error {
	if a.sessions == nil {
		return admin.ErrUnauthorized
	}
	sess := session.FromContext(r.Context())
	if sess == nil {
		return admin.ErrUnauthorized
	}
	if isAdmin, _ := sess.Get("is_admin"); isAdmin == true {
		return nil
	}
	return admin.ErrUnauthorized
}

func joinBase(base, suffix string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		trimmed = "/admin"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if suffix == "" {
		return trimmed
	}
	return trimmed + "/" + strings.Trim(suffix, "/")
}
