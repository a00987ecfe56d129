package database

import "strings"

// QueryBuilder rewrites queries written with "?" markers for the active dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a QueryBuilder for dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build replaces each "?" with the dialect's placeholder.
//
//	input:    "SELECT * FROM users WHERE id = ? AND email = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT * FROM users WHERE id = $1 AND email = $2"
//
// Queries must not contain a literal "?" inside a string constant.
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		b.WriteString(qb.dialect.Placeholder(position))
		position++
	}
	return b.String()
}

// BuildWithReturning is Build plus a RETURNING clause on dialects without
// LastInsertId.
func (qb *QueryBuilder) BuildWithReturning(query, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
