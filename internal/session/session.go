// Package session stores browser logins behind an opaque cookie token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Session is one logged-in browser.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip,omitempty"`
	UserAgent string    `json:"ua,omitempty"`
}

// Client describes the browser a session is created for.
type Client struct {
	IPAddress string
	UserAgent string
}

// Store persists sessions. Get must not return expired sessions.
type Store interface {
	Create(ctx context.Context, userID int64, ttl time.Duration, client Client) (Session, error)
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns a fresh random session token.
func NewToken() string {
	return uuid.NewString()
}

// validToken rejects tokens that could not have been issued by NewToken, so
// junk cookies never reach the backing store.
func validToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}
