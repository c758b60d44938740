package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// APIKeyBytes is the amount of entropy in a generated api key.
const APIKeyBytes = 16

// GenerateAPIKey returns APIKeyBytes random bytes as lowercase hex.
func GenerateAPIKey() (string, error) {
	b := make([]byte, APIKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
