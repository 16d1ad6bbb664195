package security

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 43)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), token)

	other, err := GenerateToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	_, err = GenerateToken(8)
	assert.Error(t, err)
}

func TestCookieOptionsFrom(t *testing.T) {
	opts := CookieOptionsFrom(config.ServerConfig{CookieDomain: "example.com", CookieSecure: true, CookieSameSite: "None"})
	assert.Equal(t, "example.com", opts.Domain)
	assert.True(t, opts.Secure)
	assert.Equal(t, http.SameSiteNoneMode, opts.SameSite)

	assert.Equal(t, http.SameSiteLaxMode, CookieOptionsFrom(config.ServerConfig{}).SameSite)
}

func TestNewCookieAndExpire(t *testing.T) {
	opts := CookieOptions{Secure: true, SameSite: http.SameSiteLaxMode}

	cookie := NewCookie(opts, "name", "value", "/sign", 10*time.Minute)
	assert.Equal(t, "/sign", cookie.Path)
	assert.Equal(t, 600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	expired := ExpiredCookie(opts, "name", "/sign")
	assert.Equal(t, -1, expired.MaxAge)
	assert.Equal(t, "/sign", expired.Path)
	assert.Empty(t, expired.Value)
}

func TestCookieValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, CookieValue(req, "missing"))

	req.AddCookie(&http.Cookie{Name: "present", Value: "v"})
	assert.Equal(t, "v", CookieValue(req, "present"))
}
