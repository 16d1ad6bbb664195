package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/marcogenualdo/taddoist/internal/store"
	"github.com/marcogenualdo/taddoist/internal/todoist"
	"github.com/marcogenualdo/taddoist/pkg/security"
)

type TaskHandler struct {
	store   store.Store
	todoist *todoist.Factory
	render  *Renderer
	logger  *slog.Logger
}

func NewTaskHandler(st store.Store, factory *todoist.Factory, render *Renderer, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		store:   st,
		todoist: factory,
		render:  render,
		logger:  logger,
	}
}

type projectChoice struct {
	Name string
	URL  string
}

type projectsPage struct {
	Title    string
	Projects []projectChoice
}

// Create is the bookmarklet target: /task/create?href=&title=&projectId=.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Redirect(w, r, withBacklink(googleSignInPath, r.URL.RequestURI()), http.StatusFound)
		return
	}

	query := r.URL.Query()
	href := query.Get("href")
	if href == "" {
		h.render.Message(w, r, http.StatusBadRequest, Message{
			Heading: "Invalid link",
			Text:    "The bookmarklet did not send a page address.",
		})
		return
	}

	accessToken, err := h.store.Get(r.Context(), user, store.TodoistTokenKey)
	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, withBacklink(todoistSignInPath, r.URL.RequestURI()), http.StatusFound)
		return
	}
	if err != nil {
		h.failure(w, r, query, fmt.Errorf("failed to load todoist token: %w", err))
		return
	}
	client := h.todoist.Client(accessToken)

	projectID := query.Get("projectId")
	if projectID == "" {
		h.chooseProject(w, r, client, query)
		return
	}

	content := href
	if title := query.Get("title"); title != "" {
		content = fmt.Sprintf("[%s](%s)", title, href)
	}

	task, err := client.CreateTask(r.Context(), content, projectID)
	if err != nil {
		if errors.Is(err, todoist.ErrForbidden) {
			h.relink(w, r, user, err)
			return
		}
		h.failure(w, r, query, err)
		return
	}

	h.logger.Info("task created", "user", user, "task_id", task.ID, "project_id", projectID)

	http.Redirect(w, r, todoist.TaskURL+url.QueryEscape(task.ID), http.StatusFound)
}

func (h *TaskHandler) chooseProject(w http.ResponseWriter, r *http.Request, client *todoist.Client, query url.Values) {
	projects, err := client.Projects(r.Context())
	if err != nil {
		if errors.Is(err, todoist.ErrForbidden) {
			user, _ := userFrom(r)
			h.relink(w, r, user, err)
			return
		}
		h.failure(w, r, query, err)
		return
	}

	title := query.Get("title")
	if title == "" {
		title = "Untitled"
	}

	page := projectsPage{Title: title, Projects: make([]projectChoice, 0, len(projects))}
	for _, project := range projects {
		choice := cloneQuery(query)
		choice.Set("projectId", project.ID)
		page.Projects = append(page.Projects, projectChoice{
			Name: project.Name,
			URL:  taskCreatePath + "?" + choice.Encode(),
		})
	}

	h.render.Render(w, r, http.StatusOK, "projects", "Choose a project", page)
}

// relink sends the user through Todoist linking again, then back here.
func (h *TaskHandler) relink(w http.ResponseWriter, r *http.Request, user string, cause error) {
	h.logger.Warn("todoist token rejected", "user", user, "error", cause)
	http.Redirect(w, r, withBacklink(todoistSignInPath, r.URL.RequestURI()), http.StatusFound)
}

func (h *TaskHandler) failure(w http.ResponseWriter, r *http.Request, query url.Values, err error) {
	h.logger.Error("task creation failed", "error", err)

	retry := cloneQuery(query)
	if nonce, nonceErr := security.GenerateToken(16); nonceErr == nil {
		retry.Set("nonce", nonce)
	}

	h.render.Message(w, r, http.StatusBadGateway, Message{
		Heading:  "Task not created",
		Text:     "Something went wrong while creating the task, please try again.",
		RetryURL: taskCreatePath + "?" + retry.Encode(),
	})
}

func cloneQuery(query url.Values) url.Values {
	clone := make(url.Values, len(query))
	for k, v := range query {
		clone[k] = append([]string(nil), v...)
	}
	return clone
}
