package repository

import (
	"context"
	"sync"

	"phoneauth/internal/models"
)

// MemoryUserStore keeps users in process memory. Contents are lost on restart.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byPhone map[string]models.User
	phones  []string // insertion order
	lastID  int64
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byPhone: make(map[string]models.User)}
}

func (s *MemoryUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byPhone[phone]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Insert checks and writes under one lock, so concurrent inserts of the same
// phone cannot both succeed.
func (s *MemoryUserStore) Insert(_ context.Context, phone, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPhone[phone]; ok {
		return nil, ErrDuplicatePhone
	}
	s.lastID++
	u := models.User{ID: s.lastID, Phone: phone, PasswordHash: passwordHash}
	s.byPhone[phone] = u
	s.phones = append(s.phones, phone)
	return &u, nil
}

func (s *MemoryUserStore) ListPhones(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.phones))
	copy(out, s.phones)
	return out, nil
}
