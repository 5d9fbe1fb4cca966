package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrStreamConsumed is returned by Body after the raw stream was read directly.
var ErrStreamConsumed = errors.New("web: request stream already consumed, use Body for repeated access")

const defaultMultipartMemory = 10 << 20 // 10 MiB

// Request wraps an incoming HTTP request with parsed route parameters and
// cached body accessors. Body, JSON, Form, and Files are safe to call more
// than once; Stream hands out the raw reader exactly once.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Params map[string]any

	raw *http.Request

	body           []byte
	bodyRead       bool
	streamConsumed bool
	form           url.Values
	formParsed     bool
	files          map[string][]*UploadedFile
}

// NewRequest wraps an *http.Request. Route parameters are attached later by
// the dispatcher via SetParams.
func NewRequest(r *http.Request) *Request {
	return &Request{
		Method: strings.ToUpper(r.Method),
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Params: map[string]any{},
		raw:    r,
	}
}

// Raw exposes the underlying request for integrations that need it.
func (r *Request) Raw() *http.Request { return r.raw }

// Context returns the underlying request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// SetParams attaches converted route parameters.
func (r *Request) SetParams(params map[string]any) {
	if params == nil {
		params = map[string]any{}
	}
	r.Params = params
}

// Param returns a route parameter by name.
func (r *Request) Param(name string) (any, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// ParamString returns a string route parameter, or "" when absent.
func (r *Request) ParamString(name string) string {
	if v, ok := r.Params[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ParamInt returns an int64 route parameter, or 0 when absent.
func (r *Request) ParamInt(name string) int64 {
	if v, ok := r.Params[name]; ok {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return 0
}

// QueryValue returns the first query string value for key.
func (r *Request) QueryValue(key string) string {
	return r.Query.Get(key)
}

// Header returns the first header value for key.
func (r *Request) Header(key string) string {
	return r.raw.Header.Get(key)
}

// Cookie returns the named cookie value, or "" when absent.
func (r *Request) Cookie(name string) string {
	c, err := r.raw.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Stream returns the raw body reader. It may be called once; afterwards both
// Stream and Body report ErrStreamConsumed.
func (r *Request) Stream() (io.ReadCloser, error) {
	if r.streamConsumed {
		return nil, ErrStreamConsumed
	}
	if r.bodyRead {
		return io.NopCloser(bytes.NewReader(r.body)), nil
	}
	r.streamConsumed = true
	return r.raw.Body, nil
}

// Body reads and caches the full request body.
func (r *Request) Body() ([]byte, error) {
	if r.bodyRead {
		return r.body, nil
	}
	if r.streamConsumed {
		return nil, ErrStreamConsumed
	}
	data, err := io.ReadAll(r.raw.Body)
	if err != nil {
		return nil, err
	}
	r.body = data
	r.bodyRead = true
	// Later form parsing goes through the cached bytes.
	r.raw.Body = io.NopCloser(bytes.NewReader(data))
	return r.body, nil
}

// JSON decodes the body into v when the request carries a JSON content type.
// Non-JSON requests and empty bodies leave v untouched.
func (r *Request) JSON(v any) error {
	if !strings.Contains(r.Header("Content-Type"), "application/json") {
		return nil
	}
	body, err := r.Body()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// Form parses and caches form data for POST, PUT, and PATCH requests. Both
// urlencoded and multipart bodies are supported; other content types yield an
// empty set.
func (r *Request) Form() (url.Values, error) {
	if r.formParsed {
		return r.form, nil
	}
	if err := r.parseForm(); err != nil {
		return nil, err
	}
	return r.form, nil
}

// FormValue returns the first form value for key.
func (r *Request) FormValue(key string) string {
	form, err := r.Form()
	if err != nil {
		return ""
	}
	return form.Get(key)
}

// Files returns uploaded files from a multipart request, keyed by field name.
func (r *Request) Files() (map[string][]*UploadedFile, error) {
	if r.formParsed {
		return r.files, nil
	}
	if err := r.parseForm(); err != nil {
		return nil, err
	}
	return r.files, nil
}

func (r *Request) parseForm() error {
	r.form = url.Values{}
	r.files = map[string][]*UploadedFile{}
	r.formParsed = true

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil
	}

	contentType := r.Header("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}

	if _, err := r.Body(); err != nil {
		return err
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		parsed, err := url.ParseQuery(string(r.body))
		if err != nil {
			return err
		}
		r.form = parsed
	case "multipart/form-data":
		if err := r.raw.ParseMultipartForm(defaultMultipartMemory); err != nil {
			return err
		}
		if r.raw.MultipartForm == nil {
			return nil
		}
		for key, values := range r.raw.MultipartForm.Value {
			for _, v := range values {
				r.form.Add(key, v)
			}
		}
		for key, headers := range r.raw.MultipartForm.File {
			for _, header := range headers {
				r.files[key] = append(r.files[key], &UploadedFile{header: header})
			}
		}
	}
	return nil
}

// UploadedFile represents a single file from a multipart request.
type UploadedFile struct {
	header *multipart.FileHeader

	cached []byte
}

// Filename reports the client-supplied file name.
func (f *UploadedFile) Filename() string { return f.header.Filename }

// ContentType reports the part's declared content type.
func (f *UploadedFile) ContentType() string {
	return f.header.Header.Get("Content-Type")
}

// Size reports the file size in bytes.
func (f *UploadedFile) Size() int64 { return f.header.Size }

// Read loads the entire file content into memory, caching the result.
func (f *UploadedFile) Read() ([]byte, error) {
	if f.cached != nil {
		return f.cached, nil
	}
	src, err := f.header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	f.cached = data
	return f.cached, nil
}

// Save writes the uploaded file to destination.
func (f *UploadedFile) Save(destination string) error {
	data, err := f.Read()
	if err != nil {
		return err
	}
	return os.WriteFile(destination, data, 0o644)
}
