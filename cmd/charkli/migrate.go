package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
)

var (
	migrateSQLite string
	migrateDryRun bool
	migratePG     = database.DefaultPostgresConfig()
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-to-postgres",
	Short: "Copy a SQLite database into PostgreSQL",
	Long: `Copy accounts, characters and web sessions from a SQLite database into
PostgreSQL, keeping row ids and resetting the id sequences. Rows that already
exist in PostgreSQL are skipped, so the command can be rerun.`,
	RunE: runMigrate,
}

func init() {
	f := migrateCmd.Flags()
	f.StringVar(&migrateSQLite, "sqlite", "", "Path to SQLite database (default: database.sqlite_path from the config)")
	f.StringVar(&migratePG.Host, "pg-host", migratePG.Host, "PostgreSQL host")
	f.IntVar(&migratePG.Port, "pg-port", migratePG.Port, "PostgreSQL port")
	f.StringVar(&migratePG.User, "pg-user", "charkli", "PostgreSQL user")
	f.StringVar(&migratePG.Password, "pg-password", "", "PostgreSQL password")
	f.StringVar(&migratePG.Database, "pg-database", "charkli", "PostgreSQL database name")
	f.StringVar(&migratePG.SSLMode, "pg-sslmode", migratePG.SSLMode, "PostgreSQL SSL mode")
	f.BoolVar(&migrateDryRun, "dry-run", false, "Show what would be migrated without copying rows")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	sqlitePath := migrateSQLite
	if sqlitePath == "" {
		sqlitePath = cfg.Database.SQLitePath
	}

	srcCfg := database.DefaultConfig(sqlitePath)
	srcCfg.BcryptCost = cfg.BcryptCost
	src, err := database.OpenWithConfig(srcCfg)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", sqlitePath, err)
	}
	defer src.Close()

	dstCfg := database.Config{
		Driver:     string(database.DialectPostgres),
		Postgres:   migratePG,
		BcryptCost: cfg.BcryptCost,
	}
	logger.Info("Opening PostgreSQL database",
		"host", migratePG.Host,
		"port", migratePG.Port,
		"database", migratePG.Database)
	dst, err := database.OpenWithConfig(dstCfg)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer dst.Close()

	if migrateDryRun {
		logger.Info("Dry run, no rows will be copied")
	}

	stats, err := src.CopyTo(cmd.Context(), dst, migrateDryRun)
	out := cmd.OutOrStdout()
	for _, s := range stats {
		fmt.Fprintf(out, "%-14s copied %d, skipped %d\n", s.Table, s.Copied, s.Skipped)
	}
	if err != nil {
		return err
	}

	logger.Info("Migration finished", "dry_run", migrateDryRun)
	return nil
}
