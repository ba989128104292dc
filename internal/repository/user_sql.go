package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"phoneauth/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect holds the driver-specific SQL for the users table.
type Dialect struct {
	insertUser        string
	selectUserByPhone string
	selectPhones      string
	isUniqueViolation func(error) bool
}

const pgUniqueViolation = "23505"

var (
	SQLite = Dialect{
		insertUser:        `INSERT INTO users (phone, password_hash) VALUES (?, ?) RETURNING id`,
		selectUserByPhone: `SELECT id, phone, password_hash FROM users WHERE phone = ?`,
		selectPhones:      `SELECT phone FROM users ORDER BY id`,
		isUniqueViolation: func(err error) bool {
			var se *sqlite.Error
			if !errors.As(err, &se) {
				return false
			}
			switch se.Code() {
			case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				return true
			case sqlite3.SQLITE_CONSTRAINT:
				// extended result codes disabled
				return strings.Contains(se.Error(), "UNIQUE")
			}
			return false
		},
	}

	Postgres = Dialect{
		insertUser:        `INSERT INTO users (phone, password_hash) VALUES ($1, $2) RETURNING id`,
		selectUserByPhone: `SELECT id, phone, password_hash FROM users WHERE phone = $1`,
		selectPhones:      `SELECT phone FROM users ORDER BY id`,
		isUniqueViolation: func(err error) bool {
			var pgErr *pgconn.PgError
			return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
		},
	}
)

// UserRepository is the relational UserStore. Uniqueness of phone is
// enforced by the table's UNIQUE constraint.
type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Ensure implementation of UserStore interface at compile time.
var _ UserStore = (*UserRepository)(nil)

// Insert creates a user and returns it with the assigned ID.
func (r *UserRepository) Insert(ctx context.Context, phone, passwordHash string) (*models.User, error) {
	u := models.User{Phone: phone, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, r.dialect.insertUser, phone, passwordHash).Scan(&u.ID)
	if err != nil {
		if r.dialect.isUniqueViolation(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("insert user %q: %w", phone, err)
	}
	return &u, nil
}

// FindByPhone fetches a user by phone. Returns (nil, nil) if not found.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, r.dialect.selectUserByPhone, phone).Scan(&u.ID, &u.Phone, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", phone, err)
	}
	return &u, nil
}

// ListPhones returns every registered phone in registration order.
func (r *UserRepository) ListPhones(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.selectPhones)
	if err != nil {
		return nil, fmt.Errorf("select phones: %w", err)
	}
	defer rows.Close()

	phones := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phones: %w", err)
	}
	return phones, nil
}
