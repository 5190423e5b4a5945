package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pensao-tracker/pkg/keygen"
)

const issuer = "pensao"

var ErrInvalidCookie = errors.New("invalid session cookie")

// Manager issues, resolves and revokes sessions. The cookie value is an
// HS256 JWT whose jti is the session id; the data itself lives in the Store.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

// NewManager creates a new Manager
func NewManager(store Store, secret, cookieName string, ttl time.Duration) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		now:        time.Now,
	}
}

// CookieName returns the name of the session cookie
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue stores data under a fresh session id and returns the signed cookie value.
func (m *Manager) Issue(ctx context.Context, data *Data) (string, error) {
	id := keygen.GenerateSessionID()
	now := m.now()
	data.CreatedAt = now.UTC()

	if err := m.store.Set(ctx, id, data, m.ttl); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Resolve verifies a cookie value and loads its session.
func (m *Manager) Resolve(ctx context.Context, value string) (string, *Data, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return "", nil, ErrInvalidCookie
	}

	data, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return "", nil, err
	}
	return claims.ID, data, nil
}

// Revoke drops the session from the store.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	return m.store.Clear(ctx, id)
}

// Cookie builds the session cookie. Secure follows the request scheme.
func (m *Manager) Cookie(r *http.Request, value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  m.now().Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that makes the browser forget the session.
func (m *Manager) ExpiredCookie(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// IsSecureRequest determines if the request is over HTTPS, directly or
// behind a TLS-terminating proxy.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}
