package auth

import (
	"context"
	"net/http"
	"time"
)

const DefaultExchangeTimeout = 5 * time.Second

const deniedErrorCode = "access_denied"

// Result is the outcome of a successful callback.
type Result[T any] struct {
	Token       T
	Data        map[string]any
	RedirectURI string
}

// Flow runs the authorization code grant against one provider. It holds no
// per-request state and is safe for concurrent use.
type Flow[T any] struct {
	adapter Adapter[T]
	csrf    *CSRFStore
	timeout time.Duration
}

func NewFlow[T any](adapter Adapter[T], csrf *CSRFStore, exchangeTimeout time.Duration) *Flow[T] {
	if exchangeTimeout <= 0 {
		exchangeTimeout = DefaultExchangeTimeout
	}

	return &Flow[T]{
		adapter: adapter,
		csrf:    csrf,
		timeout: exchangeTimeout,
	}
}

func (f *Flow[T]) Provider() string {
	return f.adapter.Name()
}

// LoginURL mints a CSRF token on w and returns the provider URL to redirect
// the browser to. redirectURI may be empty.
func (f *Flow[T]) LoginURL(w http.ResponseWriter, data map[string]any, redirectURI string) (string, error) {
	token, err := f.csrf.Issue(w)
	if err != nil {
		return "", err
	}

	state, err := EncodeState(token, data, redirectURI)
	if err != nil {
		return "", err
	}

	cfg := f.adapter.OAuth2Config()
	cfg.RedirectURL = redirectURI

	return cfg.AuthCodeURL(state, f.adapter.AuthCodeOptions()...), nil
}

// Callback validates the provider redirect in r and exchanges the code. The
// CSRF cookie is cleared only when the whole callback succeeds; failures
// return an *Error and leave it in place.
func (f *Flow[T]) Callback(w http.ResponseWriter, r *http.Request) (*Result[T], error) {
	provider := f.adapter.Name()
	query := r.URL.Query()

	if query.Has("error") {
		code := query.Get("error")
		if code == deniedErrorCode {
			return nil, &Error{Kind: KindDenied, Provider: provider, Message: "user rejected authorization request"}
		}
		return nil, &Error{
			Kind:         KindUnexpectedProvider,
			Provider:     provider,
			Message:      "provider returned error " + code,
			ProviderCode: code,
		}
	}

	code, encodedState := query.Get("code"), query.Get("state")
	if code == "" || encodedState == "" {
		return nil, &Error{Kind: KindMalformedCallback, Provider: provider, Message: "state and code must be presented"}
	}

	state, err := DecodeState(encodedState, f.csrf.Read(r))
	if err != nil {
		return nil, withProvider(err, provider)
	}

	ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
	defer cancel()

	token, err := f.adapter.Exchange(ctx, code, state.RedirectURI)
	if err != nil {
		return nil, &Error{Kind: KindExchangeFailed, Provider: provider, Message: "token exchange failed", Err: err}
	}

	f.csrf.Clear(w)

	return &Result[T]{
		Token:       token,
		Data:        state.Data,
		RedirectURI: state.RedirectURI,
	}, nil
}
