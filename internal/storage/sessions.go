package storage

import (
	"context"
	"fmt"

	"github.com/yndnr/relaychat-go/internal/core/domain"
	"github.com/yndnr/relaychat-go/pkg/token"
)

// SessionStore persists session tokens keyed by token value.
type SessionStore struct {
	kv KVEngine
}

// NewSessionStore wraps kv.
func NewSessionStore(kv KVEngine) *SessionStore {
	return &SessionStore{kv: kv}
}

// Put inserts or overwrites a session.
func (s *SessionStore) Put(ctx context.Context, sess *domain.SessionToken) error {
	if sess.Token == "" || sess.Username == "" {
		return domain.ErrInternalServer.WithDetails("session without token or username")
	}
	data, err := sess.Marshal()
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, []byte(sess.Token), data); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Range calls fn for every stored session until fn returns false.
// Undecodable records are skipped.
func (s *SessionStore) Range(ctx context.Context, fn func(*domain.SessionToken) bool) error {
	err := s.kv.Scan(ctx, nil, func(_, value []byte) bool {
		sess, err := domain.UnmarshalSessionToken(value)
		if err != nil {
			return true
		}
		return fn(sess)
	})
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// FindByToken scans all sessions for one whose token equals tok.
// Returns domain.ErrSessionNotFound if none matches.
func (s *SessionStore) FindByToken(ctx context.Context, tok string) (*domain.SessionToken, error) {
	var found *domain.SessionToken
	err := s.Range(ctx, func(sess *domain.SessionToken) bool {
		if token.Equal(sess.Token, tok) {
			found = sess
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrSessionNotFound
	}
	return found, nil
}

// Count returns the number of stored sessions.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	return countKeys(ctx, s.kv)
}

// Clear removes every session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.DropAll(ctx); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}
