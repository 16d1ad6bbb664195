package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
)

// envelope is the JSON carried in the provider's state parameter.
type envelope struct {
	CSRF        string         `json:"csrf"`
	RedirectURI string         `json:"redirect_uri,omitempty"`
	Data        map[string]any `json:"data"`
}

// State is what survives the round trip through the provider.
type State struct {
	Data map[string]any
	// RedirectURI is empty when the login URL was built without one.
	RedirectURI string
}

// EncodeState serializes the envelope as compact JSON and encodes it with
// EncodeBase64URL. A nil data map is sent as an empty object.
func EncodeState(csrf string, data map[string]any, redirectURI string) (string, error) {
	if data == nil {
		data = map[string]any{}
	}

	raw, err := json.Marshal(envelope{
		CSRF:        csrf,
		RedirectURI: redirectURI,
		Data:        data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	return EncodeBase64URL(raw), nil
}

// DecodeState checks, in order: the encoding and JSON structure
// (KindInvalidState), the CSRF token against expectedCSRF (KindCSRFMismatch),
// and the shape of data (KindInvalidState). An empty expectedCSRF never
// matches.
func DecodeState(encoded, expectedCSRF string) (*State, error) {
	raw, err := DecodeBase64URL(encoded)
	if err != nil {
		return nil, &Error{Kind: KindInvalidState, Message: "unable to decode state parameter", Err: err}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &Error{Kind: KindInvalidState, Message: "unable to decode state parameter", Err: err}
	}

	provided, ok := fields["csrf"].(string)
	if !ok || expectedCSRF == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expectedCSRF)) != 1 {
		if !ok {
			provided = undefinedToken
		}
		expected := expectedCSRF
		if expected == "" {
			expected = undefinedToken
		}
		return nil, &Error{
			Kind:         KindCSRFMismatch,
			Message:      fmt.Sprintf("csrf token mismatched (%q vs %q)", provided, expected),
			ProvidedCSRF: provided,
			ExpectedCSRF: expected,
		}
	}

	data, ok := fields["data"].(map[string]any)
	if !ok {
		return nil, &Error{
			Kind:    KindInvalidState,
			Message: fmt.Sprintf("state parameter 'data' should be an object, %s instead", jsonType(fields, "data")),
		}
	}

	redirectURI, _ := fields["redirect_uri"].(string)

	return &State{Data: data, RedirectURI: redirectURI}, nil
}

func jsonType(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return "undefined"
	}

	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
