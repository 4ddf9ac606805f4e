package domain

import (
	"crypto/rand"
	"encoding/json"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionToken binds an opaque bearer token to a username.
//
// Tokens never expire and are never revoked when a newer one is issued for
// the same user; several may be live for one username.
type SessionToken struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IssuedAt int64  `json:"issued_at"` // Unix milliseconds
}

// NewSessionToken binds tok to username.
func NewSessionToken(tok, username string) *SessionToken {
	return &SessionToken{
		Token:    tok,
		Username: username,
		IssuedAt: time.Now().UnixMilli(),
	}
}

// Marshal encodes the session for storage.
func (s *SessionToken) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSessionToken decodes a stored session.
func UnmarshalSessionToken(data []byte) (*SessionToken, error) {
	var s SessionToken
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrStorageError.WithCause(err)
	}
	return &s, nil
}

// ConnIDPrefix marks connection identifiers.
const ConnIDPrefix = "conn-"

// GenerateConnID generates a new connection ID using ULID.
// Format: conn-{ulid_lowercase}, 31 characters total.
func GenerateConnID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ConnIDPrefix + strings.ToLower(id.String()), nil
}
