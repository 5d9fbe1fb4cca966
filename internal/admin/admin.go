package admin

import (
	"net/http"
	"strings"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/orm"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// API exposes JSON CRUD endpoints for every model registered with the ORM.
// Endpoints are generated from the registry, a project that registers a
// "users" model gets /admin/api/users for free.
type API struct {
	basePath  string
	db        *orm.DB
	logger    interfaces.Logger
	authorize func(*http.Request) error
}

// Option mutates the API configuration.
type Option func(*API)

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithLogger overrides the default noop logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithAuthorizer guards every endpoint with the supplied check. The check
// returns ErrUnauthorized to reject a request.
func WithAuthorizer(authorize func(*http.Request) error) Option {
	return func(api *API) {
		api.authorize = authorize
	}
}

// NewAPI constructs an admin API over the database registry.
func NewAPI(db *orm.DB, opts ...Option) *API {
	api := &API{
		basePath: "/admin/api",
		db:       db,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// BasePath returns the mount point for the API.
func (api *API) BasePath() string {
	return api.basePath
}

// Register wires the admin handlers onto mux.
func (api *API) Register(mux *http.ServeMux) {
	root := joinPath(api.basePath, "")

	mux.HandleFunc("GET "+root+"/resources", api.guard(api.handleResourceList))
	mux.HandleFunc("GET "+root+"/{resource}", api.guard(api.handleList))
	mux.HandleFunc("POST "+root+"/{resource}", api.guard(api.handleCreate))
	mux.HandleFunc("GET "+root+"/{resource}/{id}", api.guard(api.handleGet))
	mux.HandleFunc("PUT "+root+"/{resource}/{id}", api.guard(api.handleUpdate))
	mux.HandleFunc("DELETE "+root+"/{resource}/{id}", api.guard(api.handleDelete))
}

// Handler returns a standalone handler serving only the admin API.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	return mux
}

func (api *API) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.authorize != nil {
			if err := api.authorize(r); err != nil {
				writeError(w, err)
				return
			}
		}
		next(w, r)
	}
}
