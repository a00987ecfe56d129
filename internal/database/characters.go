package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/sheet"
)

// ErrCharacterNotFound is returned when a character does not exist or is
// owned by another account. It matches sheet.ErrNotFound under errors.Is.
var ErrCharacterNotFound = fmt.Errorf("database: %w", sheet.ErrNotFound)

var _ sheet.Store = (*Database)(nil)

const characterColumns = `id, user_id, name, dnd_class, level, race, background, alignment,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	ac, speed, max_hp, current_hp, temp_hp, inspiration,
	personality_traits, ideals, bonds, flaws, history_notes,
	proficiencies_json, inventory_json, features_json, spells_json, weapons_json, appearance_json,
	image_url, created_at`

// characterValues returns the stored columns of s after user_id, in
// characterColumns order.
func characterValues(s sheet.Snapshot) []any {
	inspiration := 0
	if s.Inspiration {
		inspiration = 1
	}
	return []any{
		s.Name, s.Class, s.Level, s.Race, s.Background, s.Alignment,
		s.Scores.Str, s.Scores.Dex, s.Scores.Con, s.Scores.Int, s.Scores.Wis, s.Scores.Cha,
		s.AC, s.Speed, s.HP.Max, s.HP.Current, s.HP.Temp, inspiration,
		s.PersonalityTraits, s.Ideals, s.Bonds, s.Flaws, s.History,
		codec.EncodeProficiencies(s.Proficiencies),
		codec.EncodeInventory(s.Inventory),
		codec.EncodeFeatures(s.Features),
		codec.EncodeSpells(s.Spells),
		codec.EncodeWeapons(s.Weapons),
		codec.EncodeAppearance(s.Appearance),
		s.ImageURL,
	}
}

// CreateCharacter inserts s for s.OwnerID and returns the new id.
func (d *Database) CreateCharacter(ctx context.Context, s sheet.Snapshot) (int64, error) {
	args := append([]any{s.OwnerID}, characterValues(s)...)
	id, err := d.insertID(ctx, `INSERT INTO characters (user_id, name, dnd_class, level, race, background, alignment,
		strength, dexterity, constitution, intelligence, wisdom, charisma,
		ac, speed, max_hp, current_hp, temp_hp, inspiration,
		personality_traits, ideals, bonds, flaws, history_notes,
		proficiencies_json, inventory_json, features_json, spells_json, weapons_json, appearance_json,
		image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create character: %w", err)
	}
	return id, nil
}

// UpdateCharacter overwrites every stored field of s. The row must belong to
// s.OwnerID.
func (d *Database) UpdateCharacter(ctx context.Context, s sheet.Snapshot) error {
	args := append(characterValues(s), s.ID, s.OwnerID)
	result, err := d.db.ExecContext(ctx, d.qb.Build(`UPDATE characters SET
		name = ?, dnd_class = ?, level = ?, race = ?, background = ?, alignment = ?,
		strength = ?, dexterity = ?, constitution = ?, intelligence = ?, wisdom = ?, charisma = ?,
		ac = ?, speed = ?, max_hp = ?, current_hp = ?, temp_hp = ?, inspiration = ?,
		personality_traits = ?, ideals = ?, bonds = ?, flaws = ?, history_notes = ?,
		proficiencies_json = ?, inventory_json = ?, features_json = ?, spells_json = ?,
		weapons_json = ?, appearance_json = ?, image_url = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	if n == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// GetCharacter loads one of ownerID's characters.
func (d *Database) GetCharacter(ctx context.Context, id, ownerID int64) (sheet.Snapshot, error) {
	row := d.db.QueryRowContext(ctx,
		d.qb.Build("SELECT "+characterColumns+" FROM characters WHERE id = ? AND user_id = ?"),
		id, ownerID,
	)
	s, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sheet.Snapshot{}, ErrCharacterNotFound
		}
		return sheet.Snapshot{}, fmt.Errorf("failed to get character: %w", err)
	}
	return s, nil
}

// ListCharacters returns ownerID's characters, newest first.
func (d *Database) ListCharacters(ctx context.Context, ownerID int64) ([]sheet.Summary, error) {
	rows, err := d.db.QueryContext(ctx,
		d.qb.Build(`SELECT id, name, dnd_class, level, image_url, created_at
			FROM characters WHERE user_id = ? ORDER BY created_at DESC, id DESC`),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	list := []sheet.Summary{}
	for rows.Next() {
		var s sheet.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Class, &s.Level, &s.ImageURL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteCharacter removes one of ownerID's characters.
func (d *Database) DeleteCharacter(ctx context.Context, id, ownerID int64) error {
	result, err := d.db.ExecContext(ctx,
		d.qb.Build("DELETE FROM characters WHERE id = ? AND user_id = ?"),
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// CountCharacters returns the number of characters owned by ownerID.
func (d *Database) CountCharacters(ctx context.Context, ownerID int64) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		d.qb.Build("SELECT COUNT(*) FROM characters WHERE user_id = ?"),
		ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCharacter reads one characterColumns row. Carrier columns that fail to
// decode come back as empty values.
func scanCharacter(row rowScanner) (sheet.Snapshot, error) {
	var s sheet.Snapshot
	var inspiration int
	var profJSON, invJSON, featJSON, spellJSON, weaponJSON, appearJSON string

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Class, &s.Level, &s.Race, &s.Background, &s.Alignment,
		&s.Scores.Str, &s.Scores.Dex, &s.Scores.Con, &s.Scores.Int, &s.Scores.Wis, &s.Scores.Cha,
		&s.AC, &s.Speed, &s.HP.Max, &s.HP.Current, &s.HP.Temp, &inspiration,
		&s.PersonalityTraits, &s.Ideals, &s.Bonds, &s.Flaws, &s.History,
		&profJSON, &invJSON, &featJSON, &spellJSON, &weaponJSON, &appearJSON,
		&s.ImageURL, &s.CreatedAt,
	)
	if err != nil {
		return sheet.Snapshot{}, err
	}

	s.Inspiration = inspiration != 0
	s.Proficiencies = codec.DecodeProficiencies(profJSON)
	s.Inventory = codec.DecodeInventory(invJSON)
	s.Features = codec.DecodeFeatures(featJSON)
	s.Spells = codec.DecodeSpells(spellJSON)
	s.Weapons = codec.DecodeWeapons(weaponJSON)
	s.Appearance = codec.DecodeAppearance(appearJSON)
	return s, nil
}
