package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*
var templatesFS embed.FS

var pageNames = []string{"home", "dashboard", "projects", "message"}

// Renderer executes the embedded HTML pages inside the shared layout.
type Renderer struct {
	pages   map[string]*template.Template
	version string
	logger  *slog.Logger
}

func NewRenderer(version string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:   pages,
		version: version,
		logger:  logger,
	}, nil
}

type pageData struct {
	Title   string
	User    string
	Version string
	Content any
}

// Message is the content of the generic message page.
type Message struct {
	Heading  string
	Text     string
	RetryURL string
}

func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown page", "page", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, _ := userFrom(r)

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", pageData{
		Title:   title,
		User:    user,
		Version: rd.version,
		Content: content,
	})
	if err != nil {
		rd.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rd *Renderer) Message(w http.ResponseWriter, r *http.Request, status int, msg Message) {
	rd.Render(w, r, status, "message", msg.Heading, msg)
}
