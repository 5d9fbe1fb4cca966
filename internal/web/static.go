package web

import (
	"errors"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrStaticNotFound is returned for missing files, directories, and any path
// that tries to escape the static root.
var ErrStaticNotFound = errors.New("web: static file not found")

// Static serves files from a directory under a URL prefix.
type Static struct {
	urlPrefix string
	dir       string
}

// NewStatic builds a static file handler. urlPrefix must be rooted
// (e.g. "/static"); dir is resolved relative to the working directory.
func NewStatic(urlPrefix, dir string) *Static {
	return &Static{
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		dir:       dir,
	}
}

// Matches reports whether the request path falls under the static prefix.
func (s *Static) Matches(requestPath string) bool {
	return strings.HasPrefix(requestPath, s.urlPrefix+"/")
}

// Serve resolves the request path inside the static directory and returns a
// file response. Traversal attempts and directories yield ErrStaticNotFound;
// the handler never exposes paths outside the root.
func (s *Static) Serve(requestPath string) (*Response, error) {
	name := strings.TrimPrefix(requestPath, s.urlPrefix+"/")
	if name == "" {
		return nil, ErrStaticNotFound
	}

	cleaned := path.Clean("/" + name)
	if strings.Contains(name, "..") || cleaned == "/" {
		return nil, ErrStaticNotFound
	}

	full := filepath.Join(s.dir, filepath.FromSlash(cleaned))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, ErrStaticNotFound
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, ErrStaticNotFound
	}

	resp := NewResponse()
	resp.Body = data
	resp.Header().Set("Content-Type", contentTypeFor(full))
	return resp, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
