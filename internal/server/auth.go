package server

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/session"
	"github.com/DENFSA/CharkLi/internal/text"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentSession(r); err == nil {
		http.Redirect(w, r, "/characters", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageLogin, pageData{
		Title: text.Get("login.heading"),
		Next:  safeNext(r.URL.Query().Get("next")),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	email := strings.TrimSpace(r.PostFormValue("email"))
	data := pageData{
		Title: text.Get("login.heading"),
		Email: email,
		Next:  safeNext(r.PostFormValue("next")),
	}

	if locked, left := s.guard.Locked(ip); locked {
		data.Error = text.Getf("errors.rate_limited", seconds(left))
		s.render(w, http.StatusTooManyRequests, pageLogin, data)
		return
	}

	account, err := s.accounts.ValidateLogin(r.Context(), email, r.PostFormValue("password"), ip)
	if err != nil {
		if !errors.Is(err, database.ErrInvalidCredentials) {
			logger.Error("Login failed", "error", err, "ip", ip)
			data.Error = text.Get("errors.internal")
			s.render(w, http.StatusInternalServerError, pageLogin, data)
			return
		}

		logger.Info("Failed login attempt",
			"email", email,
			"ip", ip,
			"event", "login_failed")
		data.Error = text.Get("errors.invalid_credentials")
		if locked, d := s.guard.Fail(ip); locked {
			logger.Warning("IP rate limited after failed logins",
				"ip", ip,
				"lockout_seconds", seconds(d),
				"event", "login_ratelimit")
			data.Error = text.Getf("errors.rate_limited", seconds(d))
		}
		s.render(w, http.StatusUnauthorized, pageLogin, data)
		return
	}
	s.guard.Succeed(ip)

	if err := s.startSession(w, r, account.ID); err != nil {
		logger.Error("Failed to create session", "error", err, "account_id", account.ID)
		data.Error = text.Get("errors.internal")
		s.render(w, http.StatusInternalServerError, pageLogin, data)
		return
	}

	logger.Audit("Successful login",
		"account_id", account.ID,
		"ip", ip,
		"event", "login_success")

	next := data.Next
	if next == "" {
		next = "/characters"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageRegister, pageData{
		Title:        text.Get("register.heading"),
		PasswordHint: s.cfg.Password.RequirementsText(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	data := pageData{
		Title:        text.Get("register.heading"),
		Email:        email,
		PasswordHint: s.cfg.Password.RequirementsText(),
	}

	switch {
	case database.NormalizeEmail(email) == "":
		data.Error = text.Get("errors.invalid_email")
	case password != r.PostFormValue("password_confirm"):
		data.Error = text.Get("errors.passwords_mismatch")
	default:
		data.Error = s.cfg.Password.ValidatePassword(password)
	}
	if data.Error != "" {
		s.render(w, http.StatusBadRequest, pageRegister, data)
		return
	}

	account, err := s.accounts.CreateAccount(r.Context(), email, password)
	switch {
	case errors.Is(err, database.ErrAccountExists):
		data.Error = text.Get("errors.email_taken")
		s.render(w, http.StatusConflict, pageRegister, data)
		return
	case errors.Is(err, database.ErrInvalidEmail):
		data.Error = text.Get("errors.invalid_email")
		s.render(w, http.StatusBadRequest, pageRegister, data)
		return
	case err != nil:
		logger.Error("Failed to create account", "error", err, "ip", ip)
		data.Error = text.Get("errors.internal")
		s.render(w, http.StatusInternalServerError, pageRegister, data)
		return
	}

	logger.Audit("Account registered",
		"account_id", account.ID,
		"email", account.Email,
		"ip", ip,
		"event", "register")

	if _, err := s.sheets.SeedDemo(r.Context(), account.ID, account.Email); err != nil {
		logger.Error("Failed to seed demo character", "error", err, "account_id", account.ID)
	}

	if err := s.startSession(w, r, account.ID); err != nil {
		logger.Error("Failed to create session", "error", err, "account_id", account.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/characters", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil && c.Value != "" {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			logger.Warning("Failed to delete session", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, accountID int64) error {
	sess, err := s.sessions.Create(r.Context(), accountID, s.cfg.Session.TTL, session.Client{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		return err
	}
	s.setSessionCookie(w, sess)
	return nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// seconds rounds a lockout up so the page never says 0.
func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
