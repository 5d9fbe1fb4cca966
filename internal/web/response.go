package web

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
)

// Response encapsulates body, status, and headers for an outgoing reply.
type Response struct {
	Code   int
	Body   []byte
	header http.Header
}

// NewResponse returns an empty 200 response with an HTML content type.
func NewResponse() *Response {
	r := &Response{
		Code:   http.StatusOK,
		header: make(http.Header),
	}
	r.header.Set("Content-Type", "text/html; charset=utf-8")
	return r
}

// Header exposes the mutable response headers.
func (r *Response) Header() http.Header { return r.header }

// Status returns the response with the supplied status code applied.
func (r *Response) Status(code int) *Response {
	if code > 0 {
		r.Code = code
	}
	return r
}

// StatusText reports the full "code reason" line for the response.
func (r *Response) StatusText() string {
	reason := http.StatusText(r.Code)
	if reason == "" {
		reason = "Unknown Status"
	}
	return fmt.Sprintf("%d %s", r.Code, reason)
}

// Write emits headers, Content-Length, and body onto the wire.
func (r *Response) Write(w http.ResponseWriter) {
	r.header.Set("Content-Length", strconv.Itoa(len(r.Body)))
	for key, values := range r.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(r.Code)
	_, _ = w.Write(r.Body)
}

// HTML builds a text/html response.
func HTML(body string, status ...int) *Response {
	r := NewResponse()
	r.Body = []byte(body)
	if len(status) > 0 {
		r.Status(status[0])
	}
	return r
}

// Text builds a text/plain response.
func Text(body string, status ...int) *Response {
	r := HTML(body, status...)
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	return r
}

// JSON builds an application/json response from any marshalable value. The
// (response, error) return matches the handler signature so handlers can end
// with `return web.JSON(payload)`.
func JSON(data any, status ...int) (*Response, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("web: marshal json response: %w", err)
	}
	r := NewResponse()
	r.Body = encoded
	r.header.Set("Content-Type", "application/json")
	if len(status) > 0 {
		r.Status(status[0])
	}
	return r, nil
}

// Redirect builds a redirect response. Codes outside the redirect range fall
// back to 302 Found.
func Redirect(url string, code int) *Response {
	if code < 301 || code > 308 || code == 304 || code == 305 || code == 306 {
		code = http.StatusFound
	}
	pretty := html.EscapeString(url)
	r := NewResponse()
	r.Code = code
	r.header.Set("Location", url)
	r.Body = []byte("<html><body><a href=\"" + pretty + "\">Redirecting to " + pretty + "</a></body></html>")
	return r
}

// Error builds a minimal HTML error page for the supplied status.
func Error(code int, message string) *Response {
	if message == "" {
		message = http.StatusText(code)
	}
	r := NewResponse()
	r.Code = code
	r.Body = []byte(fmt.Sprintf("<h1>%d %s</h1>", code, html.EscapeString(message)))
	return r
}
