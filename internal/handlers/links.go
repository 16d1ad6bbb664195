package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/marcogenualdo/taddoist/internal/session"
)

const (
	googleSignInPath  = "/sign/google"
	googleCallback    = "/sign/google/callback"
	todoistSignInPath = "/sign/todoist"
	todoistCallback   = "/sign/todoist/callback"
	taskCreatePath    = "/task/create"
)

func userFrom(r *http.Request) (string, bool) {
	return session.UserFrom(r.Context())
}

// safeBacklink keeps only paths on this host. Anything that a browser could
// resolve to another origin falls back to "/".
func safeBacklink(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return "/"
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}

func backlinkFrom(data map[string]any) string {
	raw, _ := data["backlink"].(string)
	return safeBacklink(raw)
}

func withBacklink(path, backlink string) string {
	return path + "?" + url.Values{"backlink": {backlink}}.Encode()
}
