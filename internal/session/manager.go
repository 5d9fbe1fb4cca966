package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsweb-dev/jsweb/internal/identity"
	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// ErrSecretRequired rejects manager construction without a signing secret.
var ErrSecretRequired = errors.New("session: signing secret is required")

// Manager issues, verifies, and persists signed session tokens. Tokens look
// like "<uuid>.<hmac>" where the signature covers the uuid with the app
// secret. A token that fails verification is treated as absent, the visitor
// silently gets a fresh anonymous session.
type Manager struct {
	store      interfaces.SessionStore
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	logger     interfaces.Logger
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithManagerLogger overrides the default noop logger.
func WithManagerLogger(logger interfaces.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager constructs a session manager from the app secret and session
// settings.
func NewManager(secret string, cfg runtimeconfig.SessionConfig, store interfaces.SessionStore, opts ...ManagerOption) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	if store == nil {
		store = NewMemoryStore()
	}

	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = "jswebsession"
	}
	maxAge := time.Duration(cfg.MaxAgeSeconds) * time.Second
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	m := &Manager{
		store:      store,
		secret:     []byte(secret),
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     cfg.Secure,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Load resolves the session for a request cookie value. Missing, tampered,
// and expired tokens all yield a fresh anonymous session.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" || !m.verify(token) {
		if token != "" {
			m.logger.Debug("session token rejected")
		}
		return m.fresh(), nil
	}

	record, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return m.fresh(), nil
	}
	if !record.ExpiresAt.IsZero() && record.ExpiresAt.Before(time.Now().UTC()) {
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.Warn("delete expired session", "error", err)
		}
		return m.fresh(), nil
	}

	return newSession(token, record.Values, false), nil
}

// Save persists the session and writes the cookie. Sessions that are neither
// new nor modified are left untouched.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	if !sess.IsNew() && !sess.Dirty() {
		return nil
	}

	now := time.Now().UTC()
	record := &interfaces.SessionRecord{
		ID:        identity.SessionUUID(sess.Token()),
		Token:     sess.Token(),
		Values:    sess.Values(),
		ExpiresAt: now.Add(m.maxAge),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Put(ctx, record); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.Token(),
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy deletes the session record and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := m.store.Delete(ctx, sess.Token()); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Purge removes expired records from the store.
func (m *Manager) Purge(ctx context.Context) (int, error) {
	return m.store.Purge(ctx, time.Now().UTC())
}

func (m *Manager) fresh() *Session {
	return newSession(m.newToken(), nil, true)
}

func (m *Manager) newToken() string {
	id := uuid.NewString()
	return id + "." + m.sign(id)
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(token string) bool {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return false
	}
	id, sig := token[:idx], token[idx+1:]
	expected := m.sign(id)
	return hmac.Equal([]byte(expected), []byte(sig))
}
