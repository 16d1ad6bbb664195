package auth

import (
	"net/http"
	"time"

	"github.com/marcogenualdo/taddoist/pkg/security"
)

const csrfTokenBytes = 32

// CSRFStore keeps the per-flow token in a short-lived cookie. The browser is
// the only holder of the token; nothing is kept server side.
type CSRFStore struct {
	name string
	path string
	ttl  time.Duration
	opts security.CookieOptions
}

func NewCSRFStore(name, path string, ttl time.Duration, opts security.CookieOptions) *CSRFStore {
	return &CSRFStore{
		name: name,
		path: path,
		ttl:  ttl,
		opts: opts,
	}
}

// Issue mints a new token and sets it on the response. A previous token for
// the same browser is overwritten, which invalidates its pending flow.
func (s *CSRFStore) Issue(w http.ResponseWriter) (string, error) {
	token, err := security.GenerateToken(csrfTokenBytes)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, security.NewCookie(s.opts, s.name, token, s.path, s.ttl))
	return token, nil
}

// Read returns the token presented by the browser, or "" when absent.
func (s *CSRFStore) Read(r *http.Request) string {
	return security.CookieValue(r, s.name)
}

func (s *CSRFStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, security.ExpiredCookie(s.opts, s.name, s.path))
}
