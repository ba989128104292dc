package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"phoneauth/internal/config"
	"phoneauth/internal/models"
)

// ErrDuplicatePhone is returned by Insert when the phone is already taken.
var ErrDuplicatePhone = errors.New("phone already registered")

// UserStore persists users keyed uniquely by phone.
type UserStore interface {
	// FindByPhone returns (nil, nil) when no user has the phone.
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	// Insert creates a user; it fails with ErrDuplicatePhone if the phone exists.
	Insert(ctx context.Context, phone, passwordHash string) (*models.User, error)
	ListPhones(ctx context.Context) ([]string, error)
}

type Repository struct {
	Users UserStore
}

// NewRepository builds the store for the configured driver. db is ignored
// for the memory driver and may be nil.
func NewRepository(driver string, db *sql.DB) (*Repository, error) {
	var users UserStore
	switch driver {
	case config.DriverMemory:
		users = NewMemoryUserStore()
	case config.DriverSQLite:
		users = NewUserRepository(db, SQLite)
	case config.DriverPostgres:
		users = NewUserRepository(db, Postgres)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	return &Repository{Users: users}, nil
}
