package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/server"
	"github.com/DENFSA/CharkLi/internal/session"
	"github.com/DENFSA/CharkLi/internal/sheet"
)

const sessionCleanupInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTTP server with the character sheet pages and the live sheet socket.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting CharkLi server",
		"address", cfg.HTTP.Address,
		"database", cfg.Database.Driver,
		"sessions", cfg.Session.Store)

	db, err := database.OpenWithConfig(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	g, ctx := errgroup.WithContext(ctx)

	var sessions session.Store
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Session.RedisAddr, err)
		}
		sessions = session.NewRedisStore(client, cfg.Session.RedisPrefix)
	default:
		store := session.NewSQLStore(db)
		g.Go(func() error {
			cleanSessions(ctx, store, sessionCleanupInterval)
			return nil
		})
		sessions = store
	}

	srv, err := server.New(cfg, db, sessions, sheet.NewService(db))
	if err != nil {
		return err
	}
	g.Go(func() error { return srv.Run(ctx) })

	err = g.Wait()
	logger.Info("CharkLi server stopped")
	return err
}

// cleanSessions drops expired web_sessions rows until ctx is done. Redis
// expires its keys itself.
func cleanSessions(ctx context.Context, store *session.SQLStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err != nil {
				logger.Warning("Session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}
