package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DENFSA/CharkLi/internal/database"
)

// SQLStore keeps sessions in the web_sessions table.
type SQLStore struct {
	db *database.Database
}

// NewSQLStore creates a store backed by db.
func NewSQLStore(db *database.Database) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, userID int64, ttl time.Duration, client Client) (Session, error) {
	ws, err := s.db.CreateWebSession(ctx, database.WebSession{
		Token:     NewToken(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return fromWebSession(ws), nil
}

func (s *SQLStore) Get(ctx context.Context, token string) (Session, error) {
	if !validToken(token) {
		return Session{}, ErrNotFound
	}
	ws, err := s.db.GetWebSession(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return fromWebSession(ws), nil
}

func (s *SQLStore) Delete(ctx context.Context, token string) error {
	if !validToken(token) {
		return nil
	}
	return s.db.DeleteWebSession(ctx, token)
}

// Cleanup removes expired rows and returns how many were removed.
func (s *SQLStore) Cleanup(ctx context.Context) (int64, error) {
	return s.db.DeleteExpiredWebSessions(ctx, time.Now())
}

func fromWebSession(ws *database.WebSession) Session {
	return Session{
		Token:     ws.Token,
		UserID:    ws.UserID,
		CreatedAt: ws.CreatedAt,
		ExpiresAt: ws.ExpiresAt,
		IPAddress: ws.IPAddress,
		UserAgent: ws.UserAgent,
	}
}
