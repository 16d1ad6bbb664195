package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/marcogenualdo/taddoist/internal/auth"
	"github.com/marcogenualdo/taddoist/internal/config"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const Name = "google"

var ErrMissingIDToken = errors.New("no id_token in token response")

// Verifier is satisfied by *oidc.IDTokenVerifier.
type Verifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// Claims are the id token fields the application relies on.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	HostedDomain  string `json:"hd"`
}

// Token bundles the access token with the verified identity.
type Token struct {
	OAuth2     *oauth2.Token
	RawIDToken string
	Claims     Claims
}

// Email returns the address from the id token. With onlyVerified an
// unverified address is treated as absent.
func (t *Token) Email(onlyVerified bool) string {
	if onlyVerified && !t.Claims.EmailVerified {
		return ""
	}
	return t.Claims.Email
}

type Adapter struct {
	oauth2Config oauth2.Config
	verifier     Verifier
	client       *http.Client
}

var _ auth.Adapter[*Token] = (*Adapter)(nil)

// New discovers the issuer's signing keys and builds the adapter.
func New(ctx context.Context, cfg config.GoogleConfig) (*Adapter, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	return NewWithVerifier(cfg, verifier, &http.Client{Timeout: cfg.ExchangeTimeout}), nil
}

func NewWithVerifier(cfg config.GoogleConfig, verifier Verifier, client *http.Client) *Adapter {
	endpoint := googleoauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	if client == nil {
		client = &http.Client{Timeout: auth.DefaultExchangeTimeout}
	}

	return &Adapter{
		oauth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       cfg.Scopes,
		},
		verifier: verifier,
		client:   client,
	}
}

func (a *Adapter) Name() string {
	return Name
}

func (a *Adapter) OAuth2Config() oauth2.Config {
	return a.oauth2Config
}

func (a *Adapter) AuthCodeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
}

// Exchange requires the same redirect URI the login URL was built with;
// Google rejects the code otherwise.
func (a *Adapter) Exchange(ctx context.Context, code, redirectURI string) (*Token, error) {
	cfg := a.oauth2Config
	cfg.RedirectURL = redirectURI

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)

	start := time.Now()
	oauth2Token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return &Token{
		OAuth2:     oauth2Token,
		RawIDToken: rawIDToken,
		Claims:     claims,
	}, nil
}
