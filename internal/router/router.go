package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/jsweb-dev/jsweb/internal/web"
)

// Handler processes a matched request and produces a response.
type Handler func(*web.Request) (*web.Response, error)

// ErrNotFound is returned by Resolve when no pattern matches the path.
var ErrNotFound = errors.New("router: no route matches path")

// MethodNotAllowedError is returned when a pattern matches the path but not
// the HTTP verb. Allowed carries the verbs the route accepts.
type MethodNotAllowedError struct {
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("router: method %s not allowed", e.Method)
}

// Match is the result of a successful Resolve call.
type Match struct {
	Route  *Route
	Params map[string]any
}

// Router maps URL paths onto handlers and endpoint names. Reverse lookups are
// delegated to a go-urlkit route manager rebuilt lazily after registration.
type Router struct {
	mu        sync.RWMutex
	routes    []*Route
	endpoints map[string]*Route

	manager *urlkit.RouteManager
}

const reverseGroup = "app"

// New constructs an empty router.
func New() *Router {
	return &Router{
		endpoints: map[string]*Route{},
	}
}

// Add registers a route. The endpoint must be unique; it defaults to the
// method-qualified pattern when empty, so the same path can carry separate
// handlers per verb.
func (r *Router) Add(pattern string, methods []string, endpoint string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("router: handler for pattern %q is nil", pattern)
	}

	route, err := compileRoute(pattern, methods, endpoint, handler)
	if err != nil {
		return err
	}
	if endpoint == "" {
		endpoint = strings.Join(route.Methods, ",") + " " + pattern
		route.Endpoint = endpoint
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.endpoints[endpoint]; exists {
		return fmt.Errorf("router: endpoint %q is already registered", endpoint)
	}

	r.routes = append(r.routes, route)
	r.endpoints[endpoint] = route
	r.manager = nil
	return nil
}

// Resolve finds the handler for a path and verb. Registration order decides
// between overlapping patterns: the first match wins.
func (r *Router) Resolve(path, method string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var allowed []string
	for _, route := range r.routes {
		params, ok := route.Match(path)
		if !ok {
			continue
		}
		if !route.AllowsMethod(method) {
			allowed = mergeMethods(allowed, route.Methods)
			continue
		}
		return &Match{Route: route, Params: params}, nil
	}
	if len(allowed) > 0 {
		return nil, &MethodNotAllowedError{Method: method, Allowed: allowed}
	}
	return nil, ErrNotFound
}

func mergeMethods(allowed, methods []string) []string {
	for _, method := range methods {
		seen := false
		for _, have := range allowed {
			if have == method {
				seen = true
				break
			}
		}
		if !seen {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// URLFor reverse-builds the path for an endpoint. Every path parameter the
// pattern declares must be present in params.
func (r *Router) URLFor(endpoint string, params map[string]any) (string, error) {
	r.mu.Lock()
	route, ok := r.endpoints[endpoint]
	if !ok {
		r.mu.Unlock()
		return "", fmt.Errorf("router: no route found for endpoint %q", endpoint)
	}
	for _, name := range route.paramNames {
		if _, present := params[name]; !present {
			r.mu.Unlock()
			return "", fmt.Errorf("router: missing parameter %q for endpoint %q", name, endpoint)
		}
	}
	manager := r.reverseManagerLocked()
	r.mu.Unlock()

	group, err := lookupGroup(manager, reverseGroup)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, endpoint)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("router: build url for endpoint %q: %w", endpoint, err)
	}
	return url, nil
}

// Endpoints lists registered endpoint names in registration order.
func (r *Router) Endpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, route.Endpoint)
	}
	return out
}

func (r *Router) reverseManagerLocked() *urlkit.RouteManager {
	if r.manager != nil {
		return r.manager
	}
	paths := make(map[string]string, len(r.routes))
	for _, route := range r.routes {
		paths[route.Endpoint] = route.urlkitPath()
	}
	r.manager = urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:  reverseGroup,
				Paths: paths,
			},
		},
	})
	return r.manager
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("router: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("router: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("router: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("router: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
