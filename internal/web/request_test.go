package web_test

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsweb-dev/jsweb/internal/web"
)

func TestRequestBodyIsCachedAcrossCalls(t *testing.T) {
	raw := httptest.NewRequest("POST", "/submit", strings.NewReader("payload"))
	req := web.NewRequest(raw)

	first, err := req.Body()
	if err != nil {
		t.Fatalf("first Body: %v", err)
	}
	second, err := req.Body()
	if err != nil {
		t.Fatalf("second Body: %v", err)
	}
	if string(first) != "payload" || string(second) != "payload" {
		t.Fatalf("expected cached body, got %q / %q", first, second)
	}
}

func TestRequestBodyAfterStreamErrors(t *testing.T) {
	raw := httptest.NewRequest("POST", "/submit", strings.NewReader("payload"))
	req := web.NewRequest(raw)

	stream, err := req.Stream()
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if _, err := io.ReadAll(stream); err != nil {
		t.Fatalf("read stream: %v", err)
	}

	if _, err := req.Body(); !errors.Is(err, web.ErrStreamConsumed) {
		t.Fatalf("expected ErrStreamConsumed, got %v", err)
	}
	if _, err := req.Stream(); !errors.Is(err, web.ErrStreamConsumed) {
		t.Fatalf("expected ErrStreamConsumed on second Stream, got %v", err)
	}
}

func TestRequestJSONDecodesOnlyJSONContent(t *testing.T) {
	raw := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"ada"}`))
	raw.Header.Set("Content-Type", "application/json")
	req := web.NewRequest(raw)

	var payload struct {
		Name string `json:"name"`
	}
	if err := req.JSON(&payload); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if payload.Name != "ada" {
		t.Fatalf("expected decoded name, got %q", payload.Name)
	}

	plain := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"ada"}`))
	plain.Header.Set("Content-Type", "text/plain")
	untouched := web.NewRequest(plain)
	payload.Name = ""
	if err := untouched.JSON(&payload); err != nil {
		t.Fatalf("JSON on plain request: %v", err)
	}
	if payload.Name != "" {
		t.Fatalf("expected payload untouched for non-json content, got %q", payload.Name)
	}
}

func TestRequestFormParsesURLEncoded(t *testing.T) {
	raw := httptest.NewRequest("POST", "/submit", strings.NewReader("name=ada&city=london"))
	raw.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req := web.NewRequest(raw)

	if got := req.FormValue("name"); got != "ada" {
		t.Fatalf("expected form name ada, got %q", got)
	}
	if got := req.FormValue("city"); got != "london" {
		t.Fatalf("expected form city london, got %q", got)
	}
}

func TestRequestFormIgnoredForGet(t *testing.T) {
	raw := httptest.NewRequest("GET", "/submit?name=ada", nil)
	raw.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req := web.NewRequest(raw)

	form, err := req.Form()
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if len(form) != 0 {
		t.Fatalf("expected empty form for GET, got %v", form)
	}
}

func TestRequestFilesFromMultipart(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("upload", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("hello upload")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.WriteField("label", "docs"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	raw := httptest.NewRequest("POST", "/upload", &buf)
	raw.Header.Set("Content-Type", writer.FormDataContentType())
	req := web.NewRequest(raw)

	files, err := req.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	uploads := files["upload"]
	if len(uploads) != 1 {
		t.Fatalf("expected one uploaded file, got %d", len(uploads))
	}
	if uploads[0].Filename() != "notes.txt" {
		t.Fatalf("expected filename notes.txt, got %q", uploads[0].Filename())
	}
	content, err := uploads[0].Read()
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if string(content) != "hello upload" {
		t.Fatalf("unexpected upload content %q", content)
	}
	if uploads[0].Size() != int64(len("hello upload")) {
		t.Fatalf("unexpected upload size %d", uploads[0].Size())
	}

	if got := req.FormValue("label"); got != "docs" {
		t.Fatalf("expected multipart value, got %q", got)
	}

	dst := filepath.Join(t.TempDir(), "saved.txt")
	if err := uploads[0].Save(dst); err != nil {
		t.Fatalf("save upload: %v", err)
	}
	saved, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read saved upload: %v", err)
	}
	if string(saved) != "hello upload" {
		t.Fatalf("unexpected saved content %q", saved)
	}
}

func TestRequestParamAccessors(t *testing.T) {
	raw := httptest.NewRequest("GET", "/users/7", nil)
	req := web.NewRequest(raw)
	req.SetParams(map[string]any{"id": int64(7), "slug": "ada"})

	if req.ParamInt("id") != 7 {
		t.Fatalf("expected id 7, got %d", req.ParamInt("id"))
	}
	if req.ParamString("slug") != "ada" {
		t.Fatalf("expected slug ada, got %q", req.ParamString("slug"))
	}
	if req.ParamString("missing") != "" {
		t.Fatal("expected empty string for missing param")
	}
}
