package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// Adapter is the provider-specific half of an authorization flow. T is the
// token material the provider yields; the flow never looks inside it.
type Adapter[T any] interface {
	Name() string

	// OAuth2Config supplies the authorization endpoint, client id and
	// scopes. The flow sets RedirectURL on its own copy.
	OAuth2Config() oauth2.Config

	// AuthCodeOptions are extra query parameters for the login URL.
	AuthCodeOptions() []oauth2.AuthCodeOption

	// Exchange trades the code for token material. redirectURI is the one
	// the login URL was built with, or "".
	Exchange(ctx context.Context, code, redirectURI string) (T, error)
}
