package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeError reports input that is not valid unpadded URL-safe Base64.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed base64url input: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var (
	toURLSafe   = strings.NewReplacer("+", "-", "/", "_")
	fromURLSafe = strings.NewReplacer("-", "+", "_", "/")
)

// EncodeBase64URL encodes b with the standard alphabet, substitutes the two
// URL-unsafe characters and strips the padding.
func EncodeBase64URL(b []byte) string {
	encoded := base64.StdEncoding.EncodeToString(b)
	return strings.TrimRight(toURLSafe.Replace(encoded), "=")
}

// DecodeBase64URL reverses EncodeBase64URL. Padding is restored before
// decoding, so both padded and unpadded inputs are accepted.
func DecodeBase64URL(s string) ([]byte, error) {
	if strings.ContainsAny(s, "+/") {
		return nil, &DecodeError{Err: fmt.Errorf("standard alphabet character in url-safe input")}
	}

	s = fromURLSafe.Replace(s)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return b, nil
}
