package app

import (
	"net/http"

	"github.com/jsweb-dev/jsweb/internal/web"
)

// Handle registers a handler for pattern under an explicit endpoint name.
// Patterns use typed placeholders: "/users/<int:id>/files/<path:name>".
func (a *App) Handle(pattern, endpoint string, methods []string, handler Handler) error {
	return a.router.Add(pattern, methods, endpoint, handler)
}

// Route registers a handler reachable via the listed methods, GET when none
// are given. The endpoint name defaults to the method-qualified pattern, so
// the same path can be registered once per verb.
func (a *App) Route(pattern string, handler Handler, methods ...string) error {
	return a.router.Add(pattern, methods, "", handler)
}

// Get registers a GET handler.
func (a *App) Get(pattern string, handler Handler) error {
	return a.Route(pattern, handler, http.MethodGet)
}

// Post registers a POST handler.
func (a *App) Post(pattern string, handler Handler) error {
	return a.Route(pattern, handler, http.MethodPost)
}

// Put registers a PUT handler.
func (a *App) Put(pattern string, handler Handler) error {
	return a.Route(pattern, handler, http.MethodPut)
}

// Delete registers a DELETE handler.
func (a *App) Delete(pattern string, handler Handler) error {
	return a.Route(pattern, handler, http.MethodDelete)
}

// URLFor builds the path for a named endpoint from its parameters.
func (a *App) URLFor(endpoint string, params map[string]any) (string, error) {
	return a.router.URLFor(endpoint, params)
}

// Filter registers a template filter usable from every template.
func (a *App) Filter(name string, fn any) error {
	return a.engine.RegisterFilter(name, fn)
}

// Render executes a template and wraps it in an HTML response.
func (a *App) Render(name string, data map[string]any, status ...int) (*web.Response, error) {
	body, err := a.engine.Render(name, data)
	if err != nil {
		return nil, err
	}
	return web.HTML(string(body), status...), nil
}
