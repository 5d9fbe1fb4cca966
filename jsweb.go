package jsweb

import (
	"context"

	"github.com/jsweb-dev/jsweb/internal/app"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/orm"
	"github.com/jsweb-dev/jsweb/internal/render"
	"github.com/jsweb-dev/jsweb/internal/router"
	"github.com/jsweb-dev/jsweb/internal/server"
	"github.com/jsweb-dev/jsweb/internal/session"
	"github.com/jsweb-dev/jsweb/internal/web"
)

// App exports the application runtime for consumers of the jsweb package.
type App = app.App

// Request exports the framework request wrapper passed to handlers.
type Request = web.Request

// Response exports the framework response builder returned by handlers.
type Response = web.Response

// Handler exports the route handler signature.
type Handler = router.Handler

// Model exports the embeddable base model carrying id and timestamps.
type Model = orm.Model

// Session exports the per-visitor session passed through request context.
type Session = session.Session

// Engine exports the template engine contract.
type Engine = render.Engine

// Option exports the application option type for advanced wiring.
type Option = app.Option

// WithLoggerProvider supplies a custom logger provider to New.
var WithLoggerProvider = app.WithLoggerProvider

// WithSessionStore supplies a custom session store to New.
var WithSessionStore = app.WithSessionStore

// New constructs an application from an in-memory configuration.
func New(cfg Config, opts ...Option) (*App, error) {
	return app.New(cfg, opts...)
}

// Load reads a jsweb.yaml file and constructs the application it describes.
func Load(path string, opts ...Option) (*App, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, opts...)
}

// Serve bootstraps the application (database connectivity, model tables,
// session storage) and blocks serving HTTP until ctx is cancelled or an
// interrupt arrives.
func Serve(ctx context.Context, a *App) error {
	if err := a.Bootstrap(ctx); err != nil {
		return err
	}
	srv := server.New(a, a.Config().Server, server.WithLogger(logging.ServerLogger(a.LoggerProvider())))
	return srv.Run(ctx)
}

// HTML builds an HTML response with an optional status override.
func HTML(body string, status ...int) *Response { return web.HTML(body, status...) }

// Text builds a plain text response with an optional status override.
func Text(body string, status ...int) *Response { return web.Text(body, status...) }

// JSON builds a JSON response from data with an optional status override.
func JSON(data any, status ...int) (*Response, error) { return web.JSON(data, status...) }

// Redirect builds a redirect response to url with the provided status code.
func Redirect(url string, code int) *Response { return web.Redirect(url, code) }

// ErrorResponse builds a minimal HTML error page for code.
func ErrorResponse(code int, message string) *Response { return web.Error(code, message) }

// SessionFromContext returns the session attached to a request context, or nil.
func SessionFromContext(ctx context.Context) *Session {
	return session.FromContext(ctx)
}

// CSRFToken returns the token handlers should embed in forms for the session.
func CSRFToken(sess *Session) string {
	return session.EnsureCSRF(sess)
}
