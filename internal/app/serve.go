package app

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/router"
	"github.com/jsweb-dev/jsweb/internal/session"
	"github.com/jsweb-dev/jsweb/internal/web"
)

// ServeHTTP dispatches a request through the framework pipeline: static
// files first, then the admin API, then application routes.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := a.dispatch(w, r)
	a.logRequest(r, status, time.Since(start))
}

func (a *App) dispatch(w http.ResponseWriter, r *http.Request) (status int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			a.logger.Error("panic while handling request",
				"path", r.URL.Path,
				"panic", fmt.Sprintf("%v", recovered),
			)
			message := "Internal Server Error"
			if a.config.App.Debug {
				message = fmt.Sprintf("panic: %v\n\n%s", recovered, debug.Stack())
			}
			status = http.StatusInternalServerError
			a.errorPage(w, status, message)
		}
	}()

	if a.static != nil && a.static.Matches(r.URL.Path) {
		return a.serveStatic(w, r)
	}

	sess, err := a.loadSession(r)
	if err != nil {
		a.logger.Error("load session", "error", err)
		status = http.StatusInternalServerError
		a.errorPage(w, status, "Internal Server Error")
		return status
	}
	if sess != nil {
		r = r.WithContext(session.WithSession(r.Context(), sess))
	}

	if a.adminHandler != nil && a.isAdminPath(r.URL.Path) {
		return a.serveAdmin(w, r, sess)
	}

	return a.serveRoute(w, r, sess)
}

func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) int {
	resp, err := a.static.Serve(r.URL.Path)
	if err != nil {
		if errors.Is(err, web.ErrStaticNotFound) {
			a.errorPage(w, http.StatusNotFound, "Not Found")
			return http.StatusNotFound
		}
		a.logger.Error("serve static file", "path", r.URL.Path, "error", err)
		a.errorPage(w, http.StatusInternalServerError, "Internal Server Error")
		return http.StatusInternalServerError
	}
	resp.Write(w)
	return resp.Code
}

func (a *App) serveAdmin(w http.ResponseWriter, r *http.Request, sess *session.Session) int {
	if a.config.Features.CSRF && sess != nil {
		session.EnsureCSRF(sess)
		if err := session.VerifyCSRFHeader(sess, r.Method, r.Header); err != nil {
			a.saveSession(w, r, sess)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Forbidden","message":"csrf token missing or invalid"}`))
			return http.StatusForbidden
		}
	}

	recorder := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	a.saveSession(recorder, r, sess)
	a.adminHandler.ServeHTTP(recorder, r)
	return recorder.code
}

func (a *App) serveRoute(w http.ResponseWriter, r *http.Request, sess *session.Session) int {
	match, err := a.router.Resolve(r.URL.Path, r.Method)
	if err != nil {
		return a.routeError(w, r, err)
	}

	req := web.NewRequest(r)
	req.SetParams(match.Params)

	if a.config.Features.CSRF && sess != nil {
		session.EnsureCSRF(sess)
		if err := session.VerifyCSRF(sess, req); err != nil {
			a.saveSession(w, r, sess)
			a.errorPage(w, http.StatusForbidden, "Forbidden")
			return http.StatusForbidden
		}
	}

	resp, err := match.Route.Handler(req)
	if err != nil {
		a.logger.Error("handler error",
			"endpoint", match.Route.Endpoint,
			"error", err,
		)
		message := "Internal Server Error"
		if a.config.App.Debug {
			message = err.Error()
		}
		a.saveSession(w, r, sess)
		a.errorPage(w, http.StatusInternalServerError, message)
		return http.StatusInternalServerError
	}
	if resp == nil {
		resp = web.HTML("")
	}

	a.saveSession(w, r, sess)
	resp.Write(w)
	return resp.Code
}

func (a *App) routeError(w http.ResponseWriter, r *http.Request, err error) int {
	var methodErr *router.MethodNotAllowedError
	if errors.As(err, &methodErr) {
		if a.routeLog != nil {
			a.routeLog.Debug("method not allowed",
				"method", r.Method,
				"path", r.URL.Path,
				"allowed", strings.Join(methodErr.Allowed, ", "),
			)
		}
		w.Header().Set("Allow", strings.Join(methodErr.Allowed, ", "))
		a.errorPage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return http.StatusMethodNotAllowed
	}
	if errors.Is(err, router.ErrNotFound) {
		if a.routeLog != nil {
			a.routeLog.Debug("no route matched", "method", r.Method, "path", r.URL.Path)
		}
		a.errorPage(w, http.StatusNotFound, "Not Found")
		return http.StatusNotFound
	}
	a.logger.Error("resolve route", "error", err)
	a.errorPage(w, http.StatusInternalServerError, "Internal Server Error")
	return http.StatusInternalServerError
}

func (a *App) loadSession(r *http.Request) (*session.Session, error) {
	if a.sessions == nil {
		return nil, nil
	}
	token := ""
	if cookie, err := r.Cookie(a.sessions.CookieName()); err == nil {
		token = cookie.Value
	}
	return a.sessions.Load(r.Context(), token)
}

func (a *App) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if a.sessions == nil || sess == nil {
		return
	}
	if err := a.sessions.Save(r.Context(), w, sess); err != nil {
		a.logger.Error("save session", "error", err)
	}
}

// errorPage renders errors/<code>.html when the project provides it and
// falls back to the built-in error response.
func (a *App) errorPage(w http.ResponseWriter, code int, message string) {
	name := fmt.Sprintf("errors/%d.html", code)
	if a.engine != nil && a.engine.Exists(name) {
		body, err := a.engine.Render(name, map[string]any{
			"Code":    code,
			"Message": message,
		})
		if err == nil {
			web.HTML(string(body), code).Write(w)
			return
		}
		a.logger.Error("render error page", "template", name, "error", err)
	}
	web.Error(code, message).Write(w)
}

func (a *App) isAdminPath(path string) bool {
	base := joinBase(a.config.Admin.BasePath, "")
	return path == base || strings.HasPrefix(path, base+"/")
}

func (a *App) logRequest(r *http.Request, status int, elapsed time.Duration) {
	if a.requestLog == nil {
		return
	}
	logging.WithRequestContext(a.requestLog, r.Method, r.URL.Path, status).
		Info("request", "duration", elapsed.String())
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
