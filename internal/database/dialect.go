package database

// Dialect covers the SQL differences between SQLite and PostgreSQL that the
// schema and queries run into.
type Dialect interface {
	// DriverName is the name passed to sql.Open.
	DriverName() string

	// Placeholder returns the parameter marker for a 1-indexed position.
	Placeholder(position int) string

	// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
	// When it does not, inserts use ReturningClause.
	SupportsLastInsertID() bool

	// ReturningClause is appended to INSERT statements that need the new id.
	ReturningClause(column string) string

	// InitStatements run once after the connection opens.
	InitStatements() []string

	// IsDuplicateKeyError reports a unique constraint violation.
	IsDuplicateKeyError(err error) bool

	// SerialPrimaryKey is the column definition of an auto-incrementing id.
	SerialPrimaryKey() string

	// CaseInsensitiveText is the column type of text compared without case.
	CaseInsensitiveText() string

	// ResetSequence returns the statement that moves table's id sequence past
	// its largest id, or "" when explicit ids already advance it.
	ResetSequence(table string) string
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a Dialect for the given type. Unknown types get SQLite.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
