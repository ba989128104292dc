package handlers

import (
	"context"
	"net/http"

	"phoneauth/internal/models"
	"phoneauth/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerToken string
	registerErr   error
	loginToken    string
	loginErr      error
	parsePhone    string
	parseErr      error
	phones        []string
	phonesErr     error

	lastRegisterPhone    string
	lastRegisterPassword string
	lastLoginPhone       string
	lastLoginPassword    string
	lastParseToken       string
	listCalls            int
}

func (m *mockAuth) Register(_ context.Context, phone, password string) (string, error) {
	m.lastRegisterPhone = phone
	m.lastRegisterPassword = password
	return m.registerToken, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, phone, password string) (string, error) {
	m.lastLoginPhone = phone
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parsePhone, m.parseErr
}

func (m *mockAuth) ListPhones(_ context.Context) ([]string, error) {
	m.listCalls++
	return m.phones, m.phonesErr
}

type mockCatalog struct {
	items   []models.Item
	getItem models.Item
	getErr  error
	lastID  int
}

func (m *mockCatalog) ListItems(_ context.Context) []models.Item {
	return m.items
}

func (m *mockCatalog) GetItem(_ context.Context, id int) (models.Item, error) {
	m.lastID = id
	return m.getItem, m.getErr
}

// ---- Shared Test Helpers ----

const testAdminSecret = "test-admin-secret"

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{
		AdminSecret:    testAdminSecret,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
