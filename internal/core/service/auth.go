package service

import (
	"context"
	"errors"
	"sync"

	"github.com/yndnr/relaychat-go/internal/core/domain"
	"github.com/yndnr/relaychat-go/pkg/password"
	"github.com/yndnr/relaychat-go/pkg/token"
)

// CredentialRepository defines the storage interface for credentials.
type CredentialRepository interface {
	// Get returns domain.ErrCredentialNotFound for unknown usernames.
	Get(ctx context.Context, username string) (*domain.Credential, error)
	Put(ctx context.Context, c *domain.Credential) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// SessionRepository defines the storage interface for session tokens.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.SessionToken) error
	// FindByToken returns domain.ErrSessionNotFound when nothing matches.
	FindByToken(ctx context.Context, tok string) (*domain.SessionToken, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// LoginResult is the outcome of a successful password login.
type LoginResult struct {
	Username string
	Token    string

	// Registered is true when the login created the credential.
	Registered bool
}

// AuthService decides authentication outcomes.
type AuthService struct {
	creds    CredentialRepository
	sessions SessionRepository

	// regMu serializes first-use registration and token issue against
	// ClearAll.
	regMu sync.Mutex
}

// NewAuthService creates a new AuthService.
func NewAuthService(creds CredentialRepository, sessions SessionRepository) *AuthService {
	return &AuthService{
		creds:    creds,
		sessions: sessions,
	}
}

// ResolveToken returns the username bound to tok.
//
// Returns domain.ErrUnknownSessionToken if no stored session matches. No new
// token is minted.
func (s *AuthService) ResolveToken(ctx context.Context, tok string) (string, error) {
	if tok == "" {
		return "", domain.ErrUnknownSessionToken
	}
	sess, err := s.sessions.FindByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrUnknownSessionToken
		}
		return "", err
	}
	return sess.Username, nil
}

// Login authenticates username with pw, registering the user on first use.
//
// Every successful login mints and persists a fresh session token. Earlier
// tokens of the same user stay valid.
//
// Errors:
//   - domain.ErrEmptyUsername: username is empty
//   - domain.ErrWrongPassword: credential exists and pw does not match
func (s *AuthService) Login(ctx context.Context, username string, pw []byte) (*LoginResult, error) {
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}

	cred, err := s.creds.Get(ctx, username)
	registered := false
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCredentialNotFound):
		cred, registered, err = s.register(ctx, username, pw)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if !registered && !password.Verify(pw, cred.Salt, cred.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}

	tok, err := s.issueToken(ctx, username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Username:   username,
		Token:      tok,
		Registered: registered,
	}, nil
}

// register creates the credential for username. If a concurrent login
// registered the same name first, the existing credential is returned with
// registered=false so the caller verifies against it.
func (s *AuthService) register(ctx context.Context, username string, pw []byte) (*domain.Credential, bool, error) {
	salt, err := token.GenerateSalt()
	if err != nil {
		return nil, false, domain.ErrInternalServer.WithCause(err)
	}
	cred := domain.NewCredential(username, salt, password.Hash(pw, salt))

	s.regMu.Lock()
	defer s.regMu.Unlock()

	existing, err := s.creds.Get(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		return nil, false, err
	}

	if err := s.creds.Put(ctx, cred); err != nil {
		return nil, false, err
	}
	return cred, true, nil
}

// issueToken mints a token for username. The credential is re-checked under
// regMu so a token is never stored for a user cleared by ClearAll after the
// password was verified; that case returns domain.ErrWrongPassword.
func (s *AuthService) issueToken(ctx context.Context, username string) (string, error) {
	tok, err := token.GenerateSessionToken()
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()

	if _, err := s.creds.Get(ctx, username); err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", domain.ErrWrongPassword
		}
		return "", err
	}
	if err := s.sessions.Put(ctx, domain.NewSessionToken(tok, username)); err != nil {
		return "", err
	}
	return tok, nil
}

// ClearAll removes every credential and every session token.
func (s *AuthService) ClearAll(ctx context.Context) error {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	if err := s.creds.Clear(ctx); err != nil {
		return err
	}
	return s.sessions.Clear(ctx)
}

// Counts returns the number of stored credentials and session tokens.
func (s *AuthService) Counts(ctx context.Context) (credentials, sessions int, err error) {
	if credentials, err = s.creds.Count(ctx); err != nil {
		return 0, 0, err
	}
	if sessions, err = s.sessions.Count(ctx); err != nil {
		return 0, 0, err
	}
	return credentials, sessions, nil
}
