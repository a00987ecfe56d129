// Package server is the CharkLi web front end: account pages, the character
// list, the sheet editor and its live socket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/DENFSA/CharkLi/internal/config"
	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/session"
	"github.com/DENFSA/CharkLi/internal/sheet"
)

// Accounts registers and authenticates users. *database.Database implements it.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password string) (*database.Account, error)
	ValidateLogin(ctx context.Context, email, password, ipAddress string) (*database.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*database.Account, error)
}

// Server serves the web application.
type Server struct {
	cfg      *config.ServerConfig
	accounts Accounts
	sessions session.Store
	sheets   *sheet.Service
	pages    *pageSet
	guard    *loginGuard
	sockets  *socketLimiter
	upgrader websocket.Upgrader
	handler  http.Handler

	// closing is closed when shutdown starts; live sockets hang up on it.
	closing   chan struct{}
	closeOnce sync.Once
}

// New wires the handlers. Nothing listens until Run.
func New(cfg *config.ServerConfig, accounts Accounts, sessions session.Store, sheets *sheet.Service) (*Server, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
		sheets:   sheets,
		pages:    pages,
		guard:    newLoginGuard(cfg.RateLimit),
		sockets:  newSocketLimiter(cfg.Connections),
		closing:  make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /characters", s.requireUser(s.handleCharacterList))
	mux.Handle("GET /character/{id}", s.requireUser(s.handleSheet))
	mux.Handle("POST /character/{id}", s.requireUser(s.handleSave))
	mux.Handle("POST /character/{id}/delete", s.requireUser(s.handleDelete))
	mux.Handle("POST /character/{id}/preview", s.requireUser(s.handlePreview))
	mux.Handle("GET /character/{id}/live", s.requireUser(s.handleLive))

	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler(s.cfg.HTTP.StaticDir)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return s.recoverPanics(s.logRequests(mux))
}

// Run listens on the configured address until ctx is done, then drains
// in-flight requests and closes open live sheets.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}
	// Shutdown does not track hijacked connections.
	srv.RegisterOnShutdown(s.closeSockets)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		s.guard.run(ctx, 5*time.Minute)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		total, _ := s.sockets.Stats()
		logger.Info("HTTP server stopped", "open_sheets", total)
		return nil
	})

	return g.Wait()
}

func (s *Server) closeSockets() {
	s.closeOnce.Do(func() { close(s.closing) })
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if s.cfg.WebSocket.IsOriginAllowed(origin, r.Host) {
		return true
	}
	logger.Warning("Live sheet rejected - origin not allowed",
		"origin", origin,
		"host", r.Host,
		"client_ip", clientIP(r))
	return false
}
