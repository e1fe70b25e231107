// Copyright (c) 2026 Verdantia. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken produces a cryptographically random, URL-safe token
// of the given byte length.
//
// It is used for refresh tokens and password-reset tokens, where the value
// itself is the secret and only its hash is persisted.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashToken returns the hex-encoded SHA-256 digest of an opaque token.
//
// Storage layers persist only this digest, so a leaked database never
// exposes usable credentials.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
