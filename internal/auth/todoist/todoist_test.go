package todoist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_AuthCodeURL(t *testing.T) {
	adapter := New(config.TodoistConfig{
		ClientID: "todoist-id",
		Scope:    "task:add,data:read",
		AuthURL:  "https://todoist.com/oauth/authorize",
		TokenURL: "https://todoist.com/oauth/access_token",
	}, nil)

	cfg := adapter.OAuth2Config()
	authURL := cfg.AuthCodeURL("s1", adapter.AuthCodeOptions()...)

	assert.Contains(t, authURL, "https://todoist.com/oauth/authorize?")
	assert.Contains(t, authURL, "client_id=todoist-id")
	assert.Contains(t, authURL, "scope=task%3Aadd%2Cdata%3Aread")
	assert.Contains(t, authURL, "state=s1")
	assert.NotContains(t, authURL, "redirect_uri")
}

func TestAdapter_ExchangeOmitsRedirectURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.False(t, r.PostForm.Has("redirect_uri"))
		assert.Equal(t, "todoist-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok123","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	adapter := New(config.TodoistConfig{
		ClientID:     "todoist-id",
		ClientSecret: "todoist-secret",
		Scope:        "data:read_write",
		AuthURL:      srv.URL + "/oauth/authorize",
		TokenURL:     srv.URL + "/oauth/access_token",
	}, srv.Client())

	token, err := adapter.Exchange(context.Background(), "abc", "https://ignored.example.com/cb")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}
