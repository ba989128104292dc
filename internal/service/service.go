package service

import (
	"context"

	"phoneauth/internal/models"
	"phoneauth/internal/repository"
)

// Authorization covers phone registration, login and token checks.
type Authorization interface {
	Register(ctx context.Context, phone, password string) (string, error)
	Login(ctx context.Context, phone, password string) (string, error)
	ParseToken(token string) (string, error)
	ListPhones(ctx context.Context) ([]string, error)
}

// Catalog exposes the read-only item list.
type Catalog interface {
	ListItems(ctx context.Context) []models.Item
	GetItem(ctx context.Context, id int) (models.Item, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Catalog
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, hasher, tokens),
		Catalog:       NewCatalogService(DefaultItems()),
	}
}
