package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords over bcrypt's 72-byte input limit.
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// PasswordHasher produces and checks one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether digest came from Hash(plaintext). Malformed
	// digests yield false.
	Verify(plaintext, digest string) bool
}

// BcryptHasher hashes with bcrypt; every digest carries its own random salt.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost. Out-of-range costs
// (including 0) fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
