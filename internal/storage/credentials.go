package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/yndnr/relaychat-go/internal/core/domain"
)

// CredentialStore persists credentials keyed by username.
type CredentialStore struct {
	kv KVEngine
}

// NewCredentialStore wraps kv.
func NewCredentialStore(kv KVEngine) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Get returns the credential for username.
// Returns domain.ErrCredentialNotFound if none exists.
func (s *CredentialStore) Get(ctx context.Context, username string) (*domain.Credential, error) {
	data, err := s.kv.Get(ctx, []byte(username))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, domain.ErrCredentialNotFound.WithDetails("username: " + username)
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return domain.UnmarshalCredential(data)
}

// Put inserts or overwrites the credential of c.Username.
func (s *CredentialStore) Put(ctx context.Context, c *domain.Credential) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := s.kv.Set(ctx, []byte(c.Username), data); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Count returns the number of stored credentials.
func (s *CredentialStore) Count(ctx context.Context) (int, error) {
	return countKeys(ctx, s.kv)
}

// Clear removes every credential.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.kv.DropAll(ctx); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

func countKeys(ctx context.Context, kv KVEngine) (int, error) {
	n := 0
	err := kv.Scan(ctx, nil, func(_, _ []byte) bool {
		n++
		return true
	})
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	return n, nil
}
