package domain

import (
	"encoding/json"
	"time"
)

// Credential is the persisted password record of a user.
//
// It is created on first registration and never mutated afterwards.
type Credential struct {
	Username     string `json:"username"`
	Salt         []byte `json:"salt"`
	PasswordHash []byte `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"` // Unix milliseconds
}

// NewCredential creates a credential from an already derived hash.
func NewCredential(username string, salt, hash []byte) *Credential {
	return &Credential{
		Username:     username,
		Salt:         salt,
		PasswordHash: hash,
		CreatedAt:    time.Now().UnixMilli(),
	}
}

// Validate checks the credential invariants.
func (c *Credential) Validate() error {
	if c.Username == "" {
		return ErrEmptyUsername
	}
	if len(c.Salt) == 0 || len(c.PasswordHash) == 0 {
		return ErrInternalServer.WithDetails("credential without salt or hash")
	}
	return nil
}

// Marshal encodes the credential for storage.
func (c *Credential) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalCredential decodes a stored credential.
func UnmarshalCredential(data []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrStorageError.WithCause(err)
	}
	return &c, nil
}
