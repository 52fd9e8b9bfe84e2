package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateSessionID - generates a short numeric identifier for a session.
func GenerateSessionID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(99999999))
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return n.String(), nil
}

// GeneratePlayerID - generates a new unique player identifier.
func GeneratePlayerID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate player id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
