// Package database persists accounts, character sheets and web sessions in
// SQLite (default) or PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
	"golang.org/x/crypto/bcrypt"
)

// Database wraps the connection pool and provides persistence operations.
type Database struct {
	db         *sql.DB
	dialect    Dialect
	qb         *QueryBuilder
	bcryptCost int
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig connects using cfg and brings the schema up to date.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.Postgres.DSN()
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init statement %q failed: %w", stmt, err)
		}
	}

	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	d := &Database{
		db:         db,
		dialect:    dialect,
		qb:         NewQueryBuilder(dialect),
		bcryptCost: cost,
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the active SQL dialect.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// Ping checks the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate() error {
	serial := d.dialect.SerialPrimaryKey()
	ciText := d.dialect.CaseInsensitiveText()

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			email %s UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP,
			last_ip TEXT
		)`, serial, ciText),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS characters (
			id %s,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL DEFAULT '',
			dnd_class TEXT NOT NULL DEFAULT '',
			level INTEGER NOT NULL DEFAULT 1,
			race TEXT NOT NULL DEFAULT '',
			background TEXT NOT NULL DEFAULT '',
			alignment TEXT NOT NULL DEFAULT '',
			strength INTEGER NOT NULL DEFAULT 10,
			dexterity INTEGER NOT NULL DEFAULT 10,
			constitution INTEGER NOT NULL DEFAULT 10,
			intelligence INTEGER NOT NULL DEFAULT 10,
			wisdom INTEGER NOT NULL DEFAULT 10,
			charisma INTEGER NOT NULL DEFAULT 10,
			ac INTEGER NOT NULL DEFAULT 10,
			speed INTEGER NOT NULL DEFAULT 30,
			max_hp INTEGER NOT NULL DEFAULT 10,
			current_hp INTEGER NOT NULL DEFAULT 10,
			temp_hp INTEGER NOT NULL DEFAULT 0,
			inspiration INTEGER NOT NULL DEFAULT 0,
			personality_traits TEXT NOT NULL DEFAULT '',
			ideals TEXT NOT NULL DEFAULT '',
			bonds TEXT NOT NULL DEFAULT '',
			flaws TEXT NOT NULL DEFAULT '',
			history_notes TEXT NOT NULL DEFAULT '',
			proficiencies_json TEXT NOT NULL DEFAULT '{}',
			inventory_json TEXT NOT NULL DEFAULT '{}',
			features_json TEXT NOT NULL DEFAULT '[]',
			spells_json TEXT NOT NULL DEFAULT '{}',
			weapons_json TEXT NOT NULL DEFAULT '[]',
			appearance_json TEXT NOT NULL DEFAULT '{}',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP
		)`, serial),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS web_sessions (
			id %s,
			token TEXT UNIQUE NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMP NOT NULL,
			ip_address TEXT,
			user_agent TEXT
		)`, serial),

		`CREATE INDEX IF NOT EXISTS idx_characters_user_id ON characters(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_web_sessions_user_id ON web_sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_web_sessions_expires_at ON web_sessions(expires_at)`,
	}

	// Columns added after the first release. Errors mean the column exists.
	safeMigrations := []string{
		`ALTER TABLE characters ADD COLUMN updated_at TIMESTAMP`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	for _, m := range safeMigrations {
		_, _ = d.db.Exec(m)
	}
	return nil
}

// insertID runs an INSERT written with "?" markers and returns the new id.
func (d *Database) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.ExecContext(ctx, d.qb.Build(query), args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}
	var id int64
	err := d.db.QueryRowContext(ctx, d.qb.BuildWithReturning(query, "id"), args...).Scan(&id)
	return id, err
}
