package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/marcogenualdo/taddoist/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(refresh bool) *Manager {
	return NewManager(config.SessionConfig{
		CookieName: "taddoist-session",
		Secret:     testSecret,
		TTL:        30 * 24 * time.Hour,
		Refresh:    &refresh,
	}, security.CookieOptions{SameSite: http.SameSiteLaxMode})
}

func issued(t *testing.T, m *Manager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, userID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestManager_IssueAndRead(t *testing.T) {
	m := newManager(false)
	cookie := issued(t, m, "user@example.com")

	assert.Equal(t, "taddoist-session", cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	rec := httptest.NewRecorder()
	userID, err := m.Identity(rec, requestWith(cookie))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", userID)
	assert.Empty(t, rec.Result().Cookies(), "refresh disabled")
}

func TestManager_Refresh(t *testing.T) {
	m := newManager(true)
	cookie := issued(t, m, "user@example.com")

	m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	rec := httptest.NewRecorder()
	_, err := m.Identity(rec, requestWith(cookie))
	require.NoError(t, err)

	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	assert.NotEqual(t, cookie.Value, refreshed[0].Value)
}

func TestManager_Missing(t *testing.T) {
	_, err := newManager(true).Identity(httptest.NewRecorder(), requestWith(nil))
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestManager_Rejects(t *testing.T) {
	m := newManager(true)

	expired := newManager(true)
	expired.now = func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) }

	foreign := NewManager(config.SessionConfig{
		CookieName: "taddoist-session",
		Secret:     "ffffffffffffffffffffffffffffffff",
		TTL:        time.Hour,
	}, security.CookieOptions{})

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "user@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", issued(t, expired, "user@example.com").Value},
		{"foreign_secret", issued(t, foreign, "user@example.com").Value},
		{"alg_none", none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			_, err := m.Identity(rec, requestWith(&http.Cookie{Name: "taddoist-session", Value: tt.value}))
			assert.ErrorIs(t, err, ErrInvalidIdentity)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestManager_IssueRequiresUser(t *testing.T) {
	assert.Error(t, newManager(true).Issue(httptest.NewRecorder(), ""))
}

func TestManager_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	newManager(true).Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "taddoist-session", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	userID, ok := UserFrom(WithUser(context.Background(), "user@example.com"))
	assert.True(t, ok)
	assert.Equal(t, "user@example.com", userID)
}
