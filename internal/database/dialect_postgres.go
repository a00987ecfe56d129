package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for github.com/lib/pq.
type PostgresDialect struct{}

// DriverName returns "postgres", the name lib/pq registers.
func (d *PostgresDialect) DriverName() string { return "postgres" }

// Placeholder returns "$N".
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// SupportsLastInsertID is false; inserts read the id back with RETURNING.
func (d *PostgresDialect) SupportsLastInsertID() bool { return false }

// ReturningClause returns " RETURNING column".
func (d *PostgresDialect) ReturningClause(column string) string {
	return " RETURNING " + column
}

// InitStatements enables citext, used for case-insensitive emails.
func (d *PostgresDialect) InitStatements() []string {
	return []string{"CREATE EXTENSION IF NOT EXISTS citext"}
}

// IsDuplicateKeyError matches SQLSTATE 23505 (unique_violation).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}

// SerialPrimaryKey returns a BIGSERIAL primary key.
func (d *PostgresDialect) SerialPrimaryKey() string {
	return "BIGSERIAL PRIMARY KEY"
}

// CaseInsensitiveText returns CITEXT.
func (d *PostgresDialect) CaseInsensitiveText() string {
	return "CITEXT"
}

// ResetSequence assumes the <table>_id_seq name BIGSERIAL creates.
func (d *PostgresDialect) ResetSequence(table string) string {
	return fmt.Sprintf("SELECT setval('%s_id_seq', COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", table, table)
}
