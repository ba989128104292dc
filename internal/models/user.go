package models

// User is a registered account keyed by phone number.
type User struct {
	ID           int64  `json:"id"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // never exposed
}
