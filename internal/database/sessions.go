package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned for an unknown or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// WebSession is a browser login.
type WebSession struct {
	ID        int64
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

// dbTime normalizes times so that SQLite text comparison orders them.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// CreateWebSession stores a session token for userID.
func (d *Database) CreateWebSession(ctx context.Context, s WebSession) (*WebSession, error) {
	s.ExpiresAt = dbTime(s.ExpiresAt)
	s.CreatedAt = dbTime(time.Now())
	id, err := d.insertID(ctx,
		`INSERT INTO web_sessions (token, user_id, created_at, expires_at, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Token, s.UserID, s.CreatedAt, s.ExpiresAt, s.IPAddress, s.UserAgent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.ID = id
	return &s, nil
}

// GetWebSession returns the session for token if it has not expired.
func (d *Database) GetWebSession(ctx context.Context, token string) (*WebSession, error) {
	var s WebSession
	var ip, ua sql.NullString
	err := d.db.QueryRowContext(ctx,
		d.qb.Build(`SELECT id, token, user_id, created_at, expires_at, ip_address, user_agent
			FROM web_sessions WHERE token = ? AND expires_at > ?`),
		token, dbTime(time.Now()),
	).Scan(&s.ID, &s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &ip, &ua)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.IPAddress = ip.String
	s.UserAgent = ua.String
	return &s, nil
}

// DeleteWebSession removes token. Unknown tokens are not an error.
func (d *Database) DeleteWebSession(ctx context.Context, token string) error {
	_, err := d.db.ExecContext(ctx, d.qb.Build("DELETE FROM web_sessions WHERE token = ?"), token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserWebSessions logs userID out everywhere.
func (d *Database) DeleteUserWebSessions(ctx context.Context, userID int64) error {
	_, err := d.db.ExecContext(ctx, d.qb.Build("DELETE FROM web_sessions WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// DeleteExpiredWebSessions removes sessions that expired before now and
// returns how many were removed.
func (d *Database) DeleteExpiredWebSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		d.qb.Build("DELETE FROM web_sessions WHERE expires_at <= ?"),
		dbTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
