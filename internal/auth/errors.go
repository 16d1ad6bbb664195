package auth

import (
	"errors"
	"fmt"
)

// Kind is the closed set of reasons an authorization callback can fail.
type Kind int

const (
	// KindDenied is the user declining consent at the provider. It is the
	// only expected failure.
	KindDenied Kind = iota + 1
	KindInvalidState
	KindCSRFMismatch
	// KindMalformedCallback is a callback without code or state.
	KindMalformedCallback
	KindExchangeFailed
	// KindUnexpectedProvider is an error code the provider should never send
	// to this integration.
	KindUnexpectedProvider
)

func (k Kind) String() string {
	switch k {
	case KindDenied:
		return "denied"
	case KindInvalidState:
		return "invalid_state"
	case KindCSRFMismatch:
		return "csrf_mismatch"
	case KindMalformedCallback:
		return "malformed_callback"
	case KindExchangeFailed:
		return "exchange_failed"
	case KindUnexpectedProvider:
		return "unexpected_provider_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Fault reports whether the kind signals a bug or an integration problem
// rather than expected user behaviour or a tampered request.
func (k Kind) Fault() bool {
	return k == KindExchangeFailed || k == KindUnexpectedProvider
}

const undefinedToken = "undefined"

// Error is shared by every provider; Provider names the one that failed.
type Error struct {
	Kind     Kind
	Provider string
	Message  string

	// CSRF diagnostics, only set for KindCSRFMismatch.
	ProvidedCSRF string
	ExpectedCSRF string

	// ProviderCode is the raw "error" query value for KindUnexpectedProvider.
	ProviderCode string

	Err error
}

var (
	ErrDenied             = &Error{Kind: KindDenied}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
	ErrCSRFMismatch       = &Error{Kind: KindCSRFMismatch}
	ErrMalformedCallback  = &Error{Kind: KindMalformedCallback}
	ErrExchangeFailed     = &Error{Kind: KindExchangeFailed}
	ErrUnexpectedProvider = &Error{Kind: KindUnexpectedProvider}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can test against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

func withProvider(err error, provider string) error {
	if authErr, ok := AsError(err); ok && authErr.Provider == "" {
		authErr.Provider = provider
	}
	return err
}
