package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DENFSA/CharkLi/internal/database"
)

func setupSQLStore(t *testing.T) (*SQLStore, int64) {
	t.Helper()
	cfg := database.DefaultConfig(filepath.Join(t.TempDir(), "test.db"))
	cfg.BcryptCost = 4
	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	account, err := db.CreateAccount(context.Background(), "hero@example.com", "password123")
	if err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
	return NewSQLStore(db), account.ID
}

func TestSQLStoreLifecycle(t *testing.T) {
	store, userID := setupSQLStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, userID, time.Hour, Client{IPAddress: "10.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !validToken(sess.Token) {
		t.Errorf("Create() token = %q, want a uuid", sess.Token)
	}

	got, err := store.Get(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.UserID != userID || got.IPAddress != "10.0.0.1" {
		t.Errorf("Get() = %+v", got)
	}

	if err := store.Delete(ctx, sess.Token); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, sess.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreRejectsJunkTokens(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-token", "' OR 1=1 --"} {
		if _, err := store.Get(ctx, token); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", token, err)
		}
		if err := store.Delete(ctx, token); err != nil {
			t.Errorf("Delete(%q) error = %v", token, err)
		}
	}
}

func TestSQLStoreExpiry(t *testing.T) {
	store, userID := setupSQLStore(t)
	ctx := context.Background()

	expired, err := store.Create(ctx, userID, -time.Minute, Client{})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := store.Get(ctx, expired.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
}
