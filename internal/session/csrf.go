package session

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/jsweb-dev/jsweb/internal/web"
)

const (
	csrfSessionKey = "_csrf_token"
	csrfFormField  = "_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

// ErrCSRFMismatch reports a state-changing request without a valid token.
var ErrCSRFMismatch = errors.New("session: csrf token missing or invalid")

// EnsureCSRF returns the session's CSRF token, generating one on first use.
// Templates embed it in forms as a hidden "_csrf" field.
func EnsureCSRF(sess *Session) string {
	if token := sess.GetString(csrfSessionKey); token != "" {
		return token
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("session: csrf token generation: " + err.Error())
	}
	token := hex.EncodeToString(buf)
	sess.Set(csrfSessionKey, token)
	return token
}

// VerifyCSRFHeader checks the X-CSRF-Token header against the session for
// state-changing methods. Unlike VerifyCSRF it never touches the request
// body, so JSON payloads stay intact for downstream decoding.
func VerifyCSRFHeader(sess *Session, method string, header http.Header) error {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}

	expected := sess.GetString(csrfSessionKey)
	if expected == "" {
		return ErrCSRFMismatch
	}

	provided := header.Get(csrfHeaderName)
	if provided == "" {
		return ErrCSRFMismatch
	}

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrCSRFMismatch
	}
	return nil
}

// VerifyCSRF checks the request token against the session for state-changing
// methods. The token comes from the "_csrf" form field or the X-CSRF-Token
// header.
func VerifyCSRF(sess *Session, req *web.Request) error {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}

	expected := sess.GetString(csrfSessionKey)
	if expected == "" {
		return ErrCSRFMismatch
	}

	provided := req.FormValue(csrfFormField)
	if provided == "" {
		provided = req.Header(csrfHeaderName)
	}
	if provided == "" {
		return ErrCSRFMismatch
	}

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrCSRFMismatch
	}
	return nil
}
