package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcogenualdo/taddoist/internal/auth"
	"github.com/marcogenualdo/taddoist/internal/config"
	"golang.org/x/oauth2"
)

const Name = "todoist"

// Adapter links a Todoist account. Its token material is the bare access
// token string.
type Adapter struct {
	oauth2Config oauth2.Config
	client       *http.Client
}

var _ auth.Adapter[string] = (*Adapter)(nil)

func New(cfg config.TodoistConfig, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: cfg.ExchangeTimeout}
	}

	return &Adapter{
		oauth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			// Todoist takes a single comma-separated scope value.
			Scopes: []string{cfg.Scope},
		},
		client: client,
	}
}

func (a *Adapter) Name() string {
	return Name
}

func (a *Adapter) OAuth2Config() oauth2.Config {
	return a.oauth2Config
}

func (a *Adapter) AuthCodeOptions() []oauth2.AuthCodeOption {
	return nil
}

// Exchange posts client_id, client_secret and code. Todoist does not check
// the redirect URI at exchange time, so it is not sent.
func (a *Adapter) Exchange(ctx context.Context, code, _ string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)

	token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}

	return token.AccessToken, nil
}
