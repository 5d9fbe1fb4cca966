package router_test

import (
	"errors"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/router"
	"github.com/jsweb-dev/jsweb/internal/web"
)

func okHandler(*web.Request) (*web.Response, error) {
	return web.HTML("ok"), nil
}

func TestRouterResolvesTypedParams(t *testing.T) {
	r := router.New()
	if err := r.Add("/users/<int:id>/posts/<str:slug>", nil, "user_post", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	match, err := r.Resolve("/users/42/posts/hello-world", "GET")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := match.Params["id"]; got != int64(42) {
		t.Fatalf("expected int64(42), got %v (%T)", got, got)
	}
	if got := match.Params["slug"]; got != "hello-world" {
		t.Fatalf("expected slug hello-world, got %v", got)
	}
}

func TestRouterUntypedParamDefaultsToString(t *testing.T) {
	r := router.New()
	if err := r.Add("/pages/<name>", nil, "page", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	match, err := r.Resolve("/pages/about", "GET")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := match.Params["name"]; got != "about" {
		t.Fatalf("expected about, got %v", got)
	}
}

func TestRouterPathParamSpansSegments(t *testing.T) {
	r := router.New()
	if err := r.Add("/files/<path:name>", nil, "files", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	match, err := r.Resolve("/files/css/site/main.css", "GET")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := match.Params["name"]; got != "css/site/main.css" {
		t.Fatalf("expected nested path, got %v", got)
	}
}

func TestRouterIntParamRejectsNonNumeric(t *testing.T) {
	r := router.New()
	if err := r.Add("/users/<int:id>", nil, "user", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := r.Resolve("/users/abc", "GET"); !errors.Is(err, router.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-numeric id, got %v", err)
	}
	// A value that overflows int64 matches the digit pattern but fails
	// conversion, which must read as not-found rather than a 500.
	if _, err := r.Resolve("/users/99999999999999999999999999", "GET"); !errors.Is(err, router.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for overflowing id, got %v", err)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := router.New()
	if err := r.Add("/submit", []string{"POST"}, "submit", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := r.Resolve("/submit", "GET")
	var methodErr *router.MethodNotAllowedError
	if !errors.As(err, &methodErr) {
		t.Fatalf("expected MethodNotAllowedError, got %v", err)
	}
	if len(methodErr.Allowed) != 1 || methodErr.Allowed[0] != "POST" {
		t.Fatalf("expected allowed [POST], got %v", methodErr.Allowed)
	}
}

func TestRouterHeadFallsBackToGet(t *testing.T) {
	r := router.New()
	if err := r.Add("/", nil, "home", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := r.Resolve("/", "HEAD"); err != nil {
		t.Fatalf("expected HEAD to resolve via GET, got %v", err)
	}
}

func TestRouterFirstMatchWins(t *testing.T) {
	r := router.New()
	first := func(*web.Request) (*web.Response, error) { return web.Text("first"), nil }
	second := func(*web.Request) (*web.Response, error) { return web.Text("second"), nil }

	if err := r.Add("/posts/<str:slug>", nil, "post", first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if err := r.Add("/posts/latest", nil, "latest", second); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	match, err := r.Resolve("/posts/latest", "GET")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if match.Route.Endpoint != "post" {
		t.Fatalf("expected registration order to win, got endpoint %q", match.Route.Endpoint)
	}
}

func TestRouterSplitMethodRoutesOnSamePattern(t *testing.T) {
	r := router.New()
	get := func(*web.Request) (*web.Response, error) { return web.Text("get"), nil }
	post := func(*web.Request) (*web.Response, error) { return web.Text("post"), nil }

	if err := r.Add("/form", []string{"GET"}, "", get); err != nil {
		t.Fatalf("Add GET: %v", err)
	}
	if err := r.Add("/form", []string{"POST"}, "", post); err != nil {
		t.Fatalf("Add POST: %v", err)
	}

	match, err := r.Resolve("/form", "POST")
	if err != nil {
		t.Fatalf("Resolve POST: %v", err)
	}
	resp, err := match.Route.Handler(nil)
	if err != nil || string(resp.Body) != "post" {
		t.Fatalf("expected POST handler, got %q (%v)", resp.Body, err)
	}

	match, err = r.Resolve("/form", "GET")
	if err != nil {
		t.Fatalf("Resolve GET: %v", err)
	}
	resp, err = match.Route.Handler(nil)
	if err != nil || string(resp.Body) != "get" {
		t.Fatalf("expected GET handler, got %q (%v)", resp.Body, err)
	}
}

func TestRouterAllowedMethodsAccumulateAcrossRoutes(t *testing.T) {
	r := router.New()
	if err := r.Add("/form", []string{"GET"}, "", okHandler); err != nil {
		t.Fatalf("Add GET: %v", err)
	}
	if err := r.Add("/form", []string{"POST"}, "", okHandler); err != nil {
		t.Fatalf("Add POST: %v", err)
	}

	_, err := r.Resolve("/form", "DELETE")
	var methodErr *router.MethodNotAllowedError
	if !errors.As(err, &methodErr) {
		t.Fatalf("expected MethodNotAllowedError, got %v", err)
	}
	if len(methodErr.Allowed) != 2 {
		t.Fatalf("expected allowed [GET POST], got %v", methodErr.Allowed)
	}
}

func TestRouterDuplicateEndpointErrors(t *testing.T) {
	r := router.New()
	if err := r.Add("/a", nil, "home", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add("/b", nil, "home", okHandler); err == nil {
		t.Fatal("expected duplicate endpoint error")
	}
}

func TestRouterURLFor(t *testing.T) {
	r := router.New()
	if err := r.Add("/users/<int:id>/posts/<str:slug>", nil, "user_post", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	url, err := r.URLFor("user_post", map[string]any{"id": 42, "slug": "hello"})
	if err != nil {
		t.Fatalf("URLFor: %v", err)
	}
	if url != "/users/42/posts/hello" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestRouterURLForMissingParam(t *testing.T) {
	r := router.New()
	if err := r.Add("/users/<int:id>", nil, "user", okHandler); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := r.URLFor("user", nil); err == nil {
		t.Fatal("expected error for missing parameter")
	}
	if _, err := r.URLFor("ghost", map[string]any{"id": 1}); err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
}
