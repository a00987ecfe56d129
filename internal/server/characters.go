package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/sheet"
	"github.com/DENFSA/CharkLi/internal/text"
)

// maxFormBytes bounds a submitted sheet.
const maxFormBytes = 1 << 20

func (s *Server) handleCharacterList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	list, err := s.sheets.List(r.Context(), uid)
	if err != nil {
		logger.Error("Failed to list characters", "error", err, "account_id", uid)
		s.renderError(w, http.StatusInternalServerError, "errors.internal")
		return
	}
	s.render(w, http.StatusOK, pageCharacters, pageData{
		Title:      text.Get("characters.heading"),
		LoggedIn:   true,
		Error:      r.URL.Query().Get("error"),
		Characters: list,
	})
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	pathID := r.PathValue("id")

	snap, err := s.sheets.Load(r.Context(), uid, pathID)
	if err != nil {
		s.sheetError(w, err, uid, pathID)
		return
	}

	title := snap.Name
	if title == "" {
		title = text.Get("app.title")
	}
	s.render(w, http.StatusOK, pageSheet, pageData{
		Title:    title,
		LoggedIn: true,
		Error:    r.URL.Query().Get("error"),
		Sheet:    sheet.BuildView(snap),
		PathID:   pathID,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	pathID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		logger.Warning("Unreadable sheet submission", "error", err, "account_id", uid, "path_id", pathID)
		redirectWithError(w, r, "/character/"+pathID, text.Get("errors.save_failed"))
		return
	}

	id, err := s.sheets.Save(r.Context(), uid, pathID, r.PostForm)
	if err != nil {
		if errors.Is(err, sheet.ErrAccessDenied) || errors.Is(err, sheet.ErrNotFound) {
			s.sheetError(w, err, uid, pathID)
			return
		}
		logger.Error("Failed to save character", "error", err, "account_id", uid, "path_id", pathID)
		redirectWithError(w, r, "/character/"+pathID, text.Get("errors.save_failed"))
		return
	}

	logger.Audit("Character saved",
		"account_id", uid,
		"character_id", id,
		"created", pathID == "new",
		"event", "character_save")
	http.Redirect(w, r, "/character/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	pathID := r.PathValue("id")

	if err := s.sheets.Delete(r.Context(), uid, pathID); err != nil {
		if errors.Is(err, sheet.ErrNotFound) {
			s.sheetError(w, err, uid, pathID)
			return
		}
		logger.Error("Failed to delete character", "error", err, "account_id", uid, "path_id", pathID)
		redirectWithError(w, r, "/characters", text.Get("errors.delete_failed"))
		return
	}

	logger.Audit("Character deleted",
		"account_id", uid,
		"character_id", pathID,
		"event", "character_delete")
	http.Redirect(w, r, "/characters", http.StatusSeeOther)
}

// handlePreview recomputes a whole form for pages without a live socket.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	writeJSON(w, sheet.Preview(r.PostForm))
}

// sheetError maps sheet sentinels to an error page.
func (s *Server) sheetError(w http.ResponseWriter, err error, uid int64, pathID string) {
	switch {
	case errors.Is(err, sheet.ErrAccessDenied):
		logger.Warning("Sheet submitted to another character",
			"account_id", uid,
			"path_id", pathID,
			"event", "character_denied")
		s.renderError(w, http.StatusForbidden, "errors.access_denied")
	case errors.Is(err, sheet.ErrNotFound):
		s.renderError(w, http.StatusNotFound, "errors.not_found")
	default:
		logger.Error("Failed to load character", "error", err, "account_id", uid, "path_id", pathID)
		s.renderError(w, http.StatusInternalServerError, "errors.internal")
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warning("Failed to write JSON response", "error", err)
	}
}
