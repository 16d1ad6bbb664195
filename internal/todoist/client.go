package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/marcogenualdo/taddoist/internal/config"
	"golang.org/x/oauth2"
)

// TaskURL is where a created task is shown to the user.
const TaskURL = "https://todoist.com/showTask?id="

var ErrForbidden = errors.New("todoist rejected the access token")

// APIError is any non-200 answer from the REST API.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todoist endpoint %q returned status %d", e.Endpoint, e.Status)
}

// Is lets a 403 answer match ErrForbidden.
func (e *APIError) Is(target error) bool {
	return target == ErrForbidden && e.Status == http.StatusForbidden
}

type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	IsInboxProject bool   `json:"is_inbox_project,omitempty"`
}

type Task struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ProjectID string `json:"project_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

type createTaskRequest struct {
	Content   string `json:"content"`
	ProjectID string `json:"project_id,omitempty"`
}

// Factory builds per-user clients sharing one configuration.
type Factory struct {
	baseURL   *url.URL
	userAgent string
	cfg       config.TodoistConfig
	transport *http.Client
}

// NewFactory takes an optional base client whose transport carries every
// request; nil means http.DefaultClient.
func NewFactory(cfg config.TodoistConfig, version string, base *http.Client) (*Factory, error) {
	baseURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	if base == nil {
		base = http.DefaultClient
	}

	return &Factory{
		baseURL:   baseURL,
		userAgent: "Taddoist " + version,
		cfg:       cfg,
		transport: base,
	}, nil
}

func (f *Factory) Client(accessToken string) *Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, f.transport)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = f.cfg.APITimeout

	return &Client{
		baseURL:   f.baseURL,
		userAgent: f.userAgent,
		http:      httpClient,
	}
}

type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateTask adds a task; an empty projectID files it into the inbox.
func (c *Client) CreateTask(ctx context.Context, content, projectID string) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, "tasks", createTaskRequest{
		Content:   content,
		ProjectID: projectID,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(endpoint).String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("todoist request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read todoist response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(content)}
	}

	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to decode todoist response from %s: %w", endpoint, err)
	}
	return nil
}
