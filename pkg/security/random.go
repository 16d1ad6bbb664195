package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns n random bytes encoded with the unpadded URL-safe
// alphabet.
func GenerateToken(n int) (string, error) {
	if n < 16 {
		return "", fmt.Errorf("token length %d is below 128 bits", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
