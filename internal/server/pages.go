package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/rules"
	"github.com/DENFSA/CharkLi/internal/sheet"
	"github.com/DENFSA/CharkLi/internal/text"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page templates. Each is parsed together with the shared layout.
const (
	pageLogin      = "login.html"
	pageRegister   = "register.html"
	pageCharacters = "characters.html"
	pageSheet      = "sheet.html"
	pageError      = "error.html"
)

var pageNames = []string{pageLogin, pageRegister, pageCharacters, pageSheet, pageError}

var templateFuncs = template.FuncMap{
	"t":           text.Get,
	"tf":          text.Getf,
	"weaponInput": codec.WeaponInput,
	"signed":      rules.FormatSigned,
	"attackKey":   sheet.AttackKey,
	"modKey":      sheet.ModKey,
	"saveKey":     sheet.SaveKey,
}

type pageSet struct {
	pages map[string]*template.Template
}

func loadPages() (*pageSet, error) {
	ps := &pageSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ps.pages[name] = t
	}
	return ps, nil
}

// pageData is what every page template receives.
type pageData struct {
	Title    string
	LoggedIn bool
	Error    string

	// Login and register forms.
	Email        string
	Next         string
	PasswordHint string

	Characters []sheet.Summary

	Sheet  sheet.View
	PathID string
}

// render executes a page into a buffer first so a template error can still
// become a 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	t, ok := s.pages.pages[name]
	if !ok {
		logger.Error("Unknown page template", "page", name)
		http.Error(w, text.Get("errors.internal"), http.StatusInternalServerError)
		return
	}
	if data.Title == "" {
		data.Title = text.Get("app.title")
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("Template execution failed", "page", name, "error", err)
		http.Error(w, text.Get("errors.internal"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows a full error page.
func (s *Server) renderError(w http.ResponseWriter, status int, messageKey string) {
	s.render(w, status, pageError, pageData{LoggedIn: true, Error: text.Get(messageKey)})
}

// staticHandler serves the embedded assets, or dir when it is set.
func staticHandler(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.FS(os.DirFS(dir)))
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
