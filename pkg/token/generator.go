// Package token provides session token and salt generation.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// DefaultLength is the default token length in bytes.
const DefaultLength = 32

// SessionPrefix marks relaychat session tokens.
const SessionPrefix = "rcst_"

// SaltLength is the size of a password salt in bytes.
const SaltLength = 64

// Generate generates a cryptographically secure random token.
//
// The returned token is Base64 RawURL encoded for safe URL transmission.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateSessionToken generates a prefixed session token.
func GenerateSessionToken() (string, error) {
	body, err := Generate()
	if err != nil {
		return "", err
	}
	return SessionPrefix + body, nil
}

// GenerateSalt generates a random password salt.
func GenerateSalt() ([]byte, error) {
	return GenerateBytes(SaltLength)
}

// GenerateBytes generates random bytes.
func GenerateBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return bytes, nil
}

// IsSessionToken reports whether s has the session token shape.
func IsSessionToken(s string) bool {
	return strings.HasPrefix(s, SessionPrefix) && len(s) == len(SessionPrefix)+43
}

// Equal compares two tokens in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
