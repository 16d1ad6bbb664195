package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcogenualdo/taddoist/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCSRFStore() *CSRFStore {
	return NewCSRFStore("test-csrf", "/sign", 10*time.Minute, security.CookieOptions{SameSite: http.SameSiteLaxMode})
}

func TestCSRFStore_IssueReadClear(t *testing.T) {
	store := newTestCSRFStore()

	rec := httptest.NewRecorder()
	token, err := store.Issue(rec)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(token), 22)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test-csrf", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.Equal(t, "/sign", cookies[0].Path)
	assert.Equal(t, 600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/sign/todoist/callback", nil)
	assert.Empty(t, store.Read(req))
	req.AddCookie(cookies[0])
	assert.Equal(t, token, store.Read(req))

	rec = httptest.NewRecorder()
	store.Clear(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "test-csrf", cleared[0].Name)
	assert.Equal(t, "/sign", cleared[0].Path)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestCSRFStore_TokensAreIndependent(t *testing.T) {
	store := newTestCSRFStore()

	first, err := store.Issue(httptest.NewRecorder())
	require.NoError(t, err)
	second, err := store.Issue(httptest.NewRecorder())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
