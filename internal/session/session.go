package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/marcogenualdo/taddoist/pkg/security"
)

var (
	ErrNoIdentity      = errors.New("no identity cookie")
	ErrInvalidIdentity = errors.New("invalid identity cookie")
)

const issuer = "taddoist"

type claims struct {
	jwt.RegisteredClaims
}

// Manager issues and reads the long-lived identity cookie. The cookie holds
// an HS256 token whose subject is the user's email.
type Manager struct {
	name    string
	secret  []byte
	ttl     time.Duration
	refresh bool
	opts    security.CookieOptions
	now     func() time.Time
}

func NewManager(cfg config.SessionConfig, opts security.CookieOptions) *Manager {
	refresh := true
	if cfg.Refresh != nil {
		refresh = *cfg.Refresh
	}

	return &Manager{
		name:    cfg.CookieName,
		secret:  []byte(cfg.Secret),
		ttl:     cfg.TTL,
		refresh: refresh,
		opts:    opts,
		now:     time.Now,
	}
}

func (m *Manager) Issue(w http.ResponseWriter, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign identity: %w", err)
	}

	http.SetCookie(w, security.NewCookie(m.opts, m.name, signed, "/", m.ttl))
	return nil
}

// Identity returns the user id carried by the request's cookie. A valid
// cookie is re-issued with a fresh expiry when refresh is enabled.
func (m *Manager) Identity(w http.ResponseWriter, r *http.Request) (string, error) {
	raw := security.CookieValue(r, m.name)
	if raw == "" {
		return "", ErrNoIdentity
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	var parsed claims
	_, err := parser.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if parsed.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidIdentity)
	}

	if m.refresh {
		if err := m.Issue(w, parsed.Subject); err != nil {
			return "", err
		}
	}

	return parsed.Subject, nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, security.ExpiredCookie(m.opts, m.name, "/"))
}

type contextKey struct{}

func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserFrom reports the identity resolved for the request, if any.
func UserFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}
