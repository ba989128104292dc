package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"phoneauth/internal/phone"
	"phoneauth/internal/repository"
)

// Domain errors for auth flows.
var (
	ErrInvalidPhone       = phone.ErrInvalid
	ErrDuplicatePhone     = repository.ErrDuplicatePhone
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AuthService handles registration and login against a UserStore.
type AuthService struct {
	users  repository.UserStore
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// Register validates the phone, stores a hashed password and returns a token.
func (s *AuthService) Register(ctx context.Context, phoneNum, password string) (string, error) {
	if err := phone.Validate(phoneNum); err != nil {
		return "", ErrInvalidPhone
	}

	existing, err := s.users.FindByPhone(ctx, phoneNum)
	if err != nil {
		return "", storageError("find user", err)
	}
	if existing != nil {
		return "", ErrDuplicatePhone
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	u, err := s.users.Insert(ctx, phoneNum, hash)
	if err != nil {
		// a concurrent registration won the race between lookup and insert
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return "", ErrDuplicatePhone
		}
		return "", storageError("insert user", err)
	}

	return s.tokens.Issue(*u)
}

// Login checks credentials and returns a token. Unknown phone and wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, phoneNum, password string) (string, error) {
	if err := phone.Validate(phoneNum); err != nil {
		return "", ErrInvalidPhone
	}

	u, err := s.users.FindByPhone(ctx, phoneNum)
	if err != nil {
		return "", storageError("find user", err)
	}
	if u == nil {
		// keep response time close to the wrong-password path
		s.hasher.Verify(password, s.dummyDigest())
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(*u)
}

// ParseToken returns the phone a token was issued for.
func (s *AuthService) ParseToken(token string) (string, error) {
	return s.tokens.Parse(token)
}

// ListPhones returns every registered phone.
func (s *AuthService) ListPhones(ctx context.Context) ([]string, error) {
	phones, err := s.users.ListPhones(ctx)
	if err != nil {
		return nil, storageError("list phones", err)
	}
	return phones, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}
