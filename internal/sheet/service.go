package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a character does not exist or belongs to
	// someone else. The two cases are not told apart.
	ErrNotFound = errors.New("character not found")
	// ErrAccessDenied is returned when a submitted form does not match the
	// character it was posted to.
	ErrAccessDenied = errors.New("character id mismatch")
)

// Store persists snapshots. Every method is scoped to an owner; a character
// that exists but is owned by someone else must be reported as ErrNotFound.
type Store interface {
	GetCharacter(ctx context.Context, id, ownerID int64) (Snapshot, error)
	ListCharacters(ctx context.Context, ownerID int64) ([]Summary, error)
	CreateCharacter(ctx context.Context, s Snapshot) (int64, error)
	UpdateCharacter(ctx context.Context, s Snapshot) error
	DeleteCharacter(ctx context.Context, id, ownerID int64) error
}

// Service loads and saves sheets for the request handlers.
type Service struct {
	store Store
}

// NewService creates a service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Load returns the character to render. pathID "new" yields a blank sheet.
func (s *Service) Load(ctx context.Context, ownerID int64, pathID string) (Snapshot, error) {
	if pathID == "new" {
		return NewSnapshot(ownerID), nil
	}
	id, err := strconv.ParseInt(pathID, 10, 64)
	if err != nil {
		return Snapshot{}, ErrNotFound
	}
	snap, err := s.store.GetCharacter(ctx, id, ownerID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load character %d: %w", id, err)
	}
	return snap, nil
}

// List returns the owner's characters, newest first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Summary, error) {
	list, err := s.store.ListCharacters(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return list, nil
}

// Save stores a submitted sheet and returns the id to redirect to.
//
// A form id of -1 creates a new character. Any other form id must equal the
// id in the request path, and the character must belong to ownerID.
func (s *Service) Save(ctx context.Context, ownerID int64, pathID string, form url.Values) (int64, error) {
	snap := FromSubmission(form)
	snap.OwnerID = ownerID

	if snap.IsNew() {
		id, err := s.store.CreateCharacter(ctx, snap)
		if err != nil {
			return 0, fmt.Errorf("create character: %w", err)
		}
		return id, nil
	}

	if strings.TrimSpace(pathID) != strconv.FormatInt(snap.ID, 10) {
		return 0, ErrAccessDenied
	}
	if err := s.store.UpdateCharacter(ctx, snap); err != nil {
		return 0, fmt.Errorf("update character %d: %w", snap.ID, err)
	}
	return snap.ID, nil
}

// Delete removes one of the owner's characters.
func (s *Service) Delete(ctx context.Context, ownerID int64, pathID string) error {
	id, err := strconv.ParseInt(pathID, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	if err := s.store.DeleteCharacter(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}
	return nil
}

// SeedDemo gives a new account its starter character.
func (s *Service) SeedDemo(ctx context.Context, ownerID int64, email string) (int64, error) {
	id, err := s.store.CreateCharacter(ctx, DemoSnapshot(ownerID, email))
	if err != nil {
		return 0, fmt.Errorf("seed demo character: %w", err)
	}
	return id, nil
}
