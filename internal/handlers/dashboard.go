package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/marcogenualdo/taddoist/internal/bookmarklet"
	"github.com/marcogenualdo/taddoist/internal/store"
	"github.com/marcogenualdo/taddoist/internal/todoist"
)

type DashboardHandler struct {
	endpoint string
	store    store.Store
	todoist  *todoist.Factory
	render   *Renderer
	logger   *slog.Logger
}

func NewDashboardHandler(baseURL string, st store.Store, factory *todoist.Factory, render *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		endpoint: baseURL + taskCreatePath,
		store:    st,
		todoist:  factory,
		render:   render,
		logger:   logger,
	}
}

type homePage struct {
	Bookmarklet template.URL
	SignInURL   string
}

type projectBookmarklet struct {
	Name        string
	Bookmarklet template.URL
}

type dashboardPage struct {
	Linked      bool
	LinkURL     string
	Bookmarklet template.URL
	Projects    []projectBookmarklet
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.render.Message(w, r, http.StatusNotFound, Message{
			Heading: "Not found",
			Text:    "There is nothing here.",
		})
		return
	}

	generic, err := h.bookmarklet("")
	if err != nil {
		h.failure(w, r, err)
		return
	}

	user, ok := userFrom(r)
	if !ok {
		h.render.Render(w, r, http.StatusOK, "home", "", homePage{
			Bookmarklet: generic,
			SignInURL:   withBacklink(googleSignInPath, "/"),
		})
		return
	}

	accessToken, err := h.store.Get(r.Context(), user, store.TodoistTokenKey)
	if errors.Is(err, store.ErrNotFound) {
		h.render.Render(w, r, http.StatusOK, "dashboard", "Dashboard", dashboardPage{
			LinkURL: withBacklink(todoistSignInPath, "/"),
		})
		return
	}
	if err != nil {
		h.failure(w, r, err)
		return
	}

	projects, err := h.todoist.Client(accessToken).Projects(r.Context())
	if errors.Is(err, todoist.ErrForbidden) {
		h.logger.Warn("todoist token rejected", "user", user, "error", err)
		http.Redirect(w, r, withBacklink(todoistSignInPath, "/"), http.StatusFound)
		return
	}
	if err != nil {
		h.failure(w, r, err)
		return
	}

	page := dashboardPage{
		Linked:      true,
		Bookmarklet: generic,
		Projects:    make([]projectBookmarklet, 0, len(projects)),
	}
	for _, project := range projects {
		link, err := h.bookmarklet(project.ID)
		if err != nil {
			h.failure(w, r, err)
			return
		}
		page.Projects = append(page.Projects, projectBookmarklet{Name: project.Name, Bookmarklet: link})
	}

	h.render.Render(w, r, http.StatusOK, "dashboard", "Dashboard", page)
}

// The generated code is trusted, so html/template must not rewrite the
// javascript: scheme.
func (h *DashboardHandler) bookmarklet(projectID string) (template.URL, error) {
	link, err := bookmarklet.Generate(h.endpoint, projectID, true)
	if err != nil {
		return "", err
	}
	return template.URL(link), nil
}

func (h *DashboardHandler) failure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("dashboard failed", "error", err)
	h.render.Message(w, r, http.StatusBadGateway, Message{
		Heading:  "Dashboard unavailable",
		Text:     "We could not load your Todoist projects.",
		RetryURL: "/",
	})
}
