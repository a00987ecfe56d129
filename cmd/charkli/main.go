// Package main is the charkli command: the character sheet web server and
// its maintenance tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DENFSA/CharkLi/internal/config"
	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/text"
)

var (
	configFile string
	textFile   string

	// cfg is loaded before any subcommand runs.
	cfg *config.ServerConfig
)

var rootCmd = &cobra.Command{
	Use:   "charkli",
	Short: "D&D character sheet server",
	Long:  `CharkLi serves editable D&D 5e character sheets with live derived statistics.`,

	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "data/server.yaml", "Path to server config YAML file")
	rootCmd.PersistentFlags().StringVar(&textFile, "text", "", "Path to a YAML file overriding built-in messages")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createAccountCmd)
	rootCmd.AddCommand(migrateCmd)
}

// setup loads configuration, logging and the message catalog.
func setup(cmd *cobra.Command, _ []string) error {
	logConfig, err := logger.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using default logging\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	if err := text.Initialize(textFile); err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return nil
}

// databaseConfig converts the file settings into a database.Config.
func databaseConfig(c *config.ServerConfig) database.Config {
	dbCfg := database.DefaultConfig(c.Database.SQLitePath)
	dbCfg.Driver = c.Database.Driver
	dbCfg.BcryptCost = c.BcryptCost
	dbCfg.Postgres = postgresConfig(c.Database.Postgres)
	return dbCfg
}

// postgresConfig fills unset pool settings from the database defaults.
func postgresConfig(p config.PostgresConfig) database.PostgresConfig {
	out := database.DefaultPostgresConfig()
	if p.Host != "" {
		out.Host = p.Host
	}
	if p.Port > 0 {
		out.Port = p.Port
	}
	out.User = p.User
	out.Password = p.Password
	out.Database = p.Database
	if p.SSLMode != "" {
		out.SSLMode = p.SSLMode
	}
	if p.MaxOpenConns > 0 {
		out.MaxOpenConns = p.MaxOpenConns
	}
	if p.MaxIdleConns > 0 {
		out.MaxIdleConns = p.MaxIdleConns
	}
	if p.ConnMaxLifetime > 0 {
		out.ConnMaxLifetime = p.ConnMaxLifetime
	}
	return out
}
