package security

import (
	"net/http"
	"strings"
	"time"

	"github.com/marcogenualdo/taddoist/internal/config"
)

// CookieOptions carries the attributes shared by every cookie the app sets.
type CookieOptions struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func CookieOptionsFrom(cfg config.ServerConfig) CookieOptions {
	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(cfg.CookieSameSite) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}

	return CookieOptions{
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	}
}

func NewCookie(opts CookieOptions, name, value, path string, maxAge time.Duration) *http.Cookie {
	if path == "" {
		path = "/"
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   opts.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: opts.SameSite,
	}
}

// ExpiredCookie must use the same name, path and domain as the cookie it
// replaces, otherwise browsers keep the original.
func ExpiredCookie(opts CookieOptions, name, path string) *http.Cookie {
	cookie := NewCookie(opts, name, "", path, 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func CookieValue(req *http.Request, name string) string {
	cookie, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
