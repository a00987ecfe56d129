package database

import (
	"context"
	"fmt"
	"strings"
)

// copyTable is a table carried over by CopyTo, with the columns copied.
type copyTable struct {
	name    string
	columns []string
}

// copyTables is in foreign-key order.
var copyTables = []copyTable{
	{"users", []string{"id", "email", "password_hash", "created_at", "last_login", "last_ip"}},
	{"characters", []string{
		"id", "user_id", "name", "dnd_class", "level", "race", "background", "alignment",
		"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
		"ac", "speed", "max_hp", "current_hp", "temp_hp", "inspiration",
		"personality_traits", "ideals", "bonds", "flaws", "history_notes",
		"proficiencies_json", "inventory_json", "features_json", "spells_json", "weapons_json", "appearance_json",
		"image_url", "created_at", "updated_at",
	}},
	{"web_sessions", []string{"id", "token", "user_id", "created_at", "expires_at", "ip_address", "user_agent"}},
}

// CopyStats counts the rows of one table handled by CopyTo.
type CopyStats struct {
	Table   string
	Copied  int
	Skipped int
}

// CopyTo copies every account, character and web session into dst, keeping
// row ids. Rows whose id already exists in dst are skipped, so an interrupted
// copy can be rerun. With dryRun set nothing is written and Copied counts the
// rows that would be.
func (d *Database) CopyTo(ctx context.Context, dst *Database, dryRun bool) ([]CopyStats, error) {
	var stats []CopyStats
	for _, t := range copyTables {
		st, err := d.copyTable(ctx, dst, t, dryRun)
		stats = append(stats, st)
		if err != nil {
			return stats, fmt.Errorf("copy %s: %w", t.name, err)
		}
	}

	if dryRun {
		return stats, nil
	}
	if err := dst.resetSequences(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

func (d *Database) copyTable(ctx context.Context, dst *Database, t copyTable, dryRun bool) (CopyStats, error) {
	st := CopyStats{Table: t.name}

	rows, err := d.readRows(ctx, t)
	if err != nil {
		return st, err
	}

	exists := dst.qb.Build("SELECT COUNT(*) FROM " + t.name + " WHERE id = ?")
	insert := dst.qb.Build(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name,
		strings.Join(t.columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")))

	for _, values := range rows {
		var n int
		if err := dst.db.QueryRowContext(ctx, exists, values[0]).Scan(&n); err != nil {
			return st, fmt.Errorf("check id %v: %w", values[0], err)
		}
		if n > 0 {
			st.Skipped++
			continue
		}
		if dryRun {
			st.Copied++
			continue
		}
		if _, err := dst.db.ExecContext(ctx, insert, values...); err != nil {
			if dst.dialect.IsDuplicateKeyError(err) {
				st.Skipped++
				continue
			}
			return st, fmt.Errorf("insert id %v: %w", values[0], err)
		}
		st.Copied++
	}
	return st, nil
}

// readRows loads a whole table so that no cursor stays open while dst is
// written.
func (d *Database) readRows(ctx context.Context, t copyTable) ([][]any, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT "+strings.Join(t.columns, ", ")+" FROM "+t.name+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, len(t.columns))
		ptrs := make([]any, len(t.columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			// lib/pq would send []byte as bytea.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// resetSequences moves id sequences past the copied ids.
func (d *Database) resetSequences(ctx context.Context) error {
	for _, t := range copyTables {
		q := d.dialect.ResetSequence(t.name)
		if q == "" {
			continue
		}
		if _, err := d.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("reset %s sequence: %w", t.name, err)
		}
	}
	return nil
}
