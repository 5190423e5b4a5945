// Package session keeps per-login state outside the process behind a small
// Store interface, and binds it to the browser through a signed cookie.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data is what a login stores for the lifetime of the session.
type Data struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"user_email"`
	Name      string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session data keyed by an opaque session id.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Clear(ctx context.Context, id string) error
}
