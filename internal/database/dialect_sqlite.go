package database

import "strings"

// SQLiteDialect implements Dialect for modernc.org/sqlite.
type SQLiteDialect struct{}

// DriverName returns "sqlite", the name modernc.org/sqlite registers.
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// Placeholder is always "?".
func (d *SQLiteDialect) Placeholder(int) string { return "?" }

// SupportsLastInsertID is true.
func (d *SQLiteDialect) SupportsLastInsertID() bool { return true }

// ReturningClause is empty; ids come from LastInsertId.
func (d *SQLiteDialect) ReturningClause(string) string { return "" }

// InitStatements turns on foreign keys and WAL, and waits on locks instead of
// failing immediately.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// IsDuplicateKeyError matches the "UNIQUE constraint failed" message.
func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SerialPrimaryKey returns an AUTOINCREMENT integer primary key.
func (d *SQLiteDialect) SerialPrimaryKey() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// CaseInsensitiveText returns TEXT with NOCASE collation.
func (d *SQLiteDialect) CaseInsensitiveText() string {
	return "TEXT COLLATE NOCASE"
}

// ResetSequence is empty: AUTOINCREMENT tracks explicit ids in sqlite_sequence.
func (d *SQLiteDialect) ResetSequence(string) string { return "" }
