package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"phoneauth/internal/models"
	"phoneauth/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// mockUserStore is a lightweight in-test mock for repository.UserStore.
type mockUserStore struct {
	FindByPhoneFn func(phone string) (*models.User, error)
	InsertFn      func(phone, hash string) (*models.User, error)
	ListPhonesFn  func() ([]string, error)

	insertCalls []struct {
		phone string
		hash  string
	}
	findCalls []string
}

func (m *mockUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	m.findCalls = append(m.findCalls, phone)
	return m.FindByPhoneFn(phone)
}

func (m *mockUserStore) Insert(_ context.Context, phone, hash string) (*models.User, error) {
	m.insertCalls = append(m.insertCalls, struct {
		phone string
		hash  string
	}{phone: phone, hash: hash})
	return m.InsertFn(phone, hash)
}

func (m *mockUserStore) ListPhones(_ context.Context) ([]string, error) {
	return m.ListPhonesFn()
}

func notFound(string) (*models.User, error) { return nil, nil }

func newTestAuth(store repository.UserStore) *AuthService {
	return NewAuthService(store, NewBcryptHasher(bcrypt.MinCost), DemoIssuer{})
}

// --- Register tests ---

func TestAuthService_Register_SuccessHashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockUserStore{
		FindByPhoneFn: notFound,
		InsertFn: func(phone, hash string) (*models.User, error) {
			return &models.User{ID: 42, Phone: phone, PasswordHash: hash}, nil
		},
	}
	svc := newTestAuth(mock)

	token, err := svc.Register(context.Background(), "1234567890", "s3cr3t")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token != "demo-token-1234567890" {
		t.Fatalf("unexpected token %q", token)
	}

	// Insert called exactly once with a bcrypt hash, never the raw password.
	if len(mock.insertCalls) != 1 {
		t.Fatalf("expected 1 Insert call, got %d", len(mock.insertCalls))
	}
	call := mock.insertCalls[0]
	if call.phone != "1234567890" {
		t.Errorf("expected phone '1234567890', got %q", call.phone)
	}
	if call.hash == "" || call.hash == "s3cr3t" {
		t.Errorf("expected a non-empty hash different from the raw password, got %q", call.hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(call.hash), []byte("s3cr3t")); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_Register_InvalidPhone(t *testing.T) {
	mock := &mockUserStore{}
	svc := newTestAuth(mock)

	for _, p := range []string{"12345", "12345678a0", "", "123456789012"} {
		_, err := svc.Register(context.Background(), p, "pw")
		if !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("phone %q: expected ErrInvalidPhone, got %v", p, err)
		}
	}
	if len(mock.findCalls) != 0 || len(mock.insertCalls) != 0 {
		t.Fatalf("store must not be touched for invalid phones")
	}
}

func TestAuthService_Register_AlreadyExists(t *testing.T) {
	mock := &mockUserStore{
		FindByPhoneFn: func(phone string) (*models.User, error) {
			return &models.User{ID: 1, Phone: phone, PasswordHash: "x"}, nil
		},
		InsertFn: func(phone, hash string) (*models.User, error) {
			t.Fatal("Insert should not be called for an existing phone")
			return nil, nil
		},
	}
	svc := newTestAuth(mock)

	_, err := svc.Register(context.Background(), "1234567890", "pw")
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestAuthService_Register_LostInsertRace(t *testing.T) {
	mock := &mockUserStore{
		FindByPhoneFn: notFound,
		InsertFn: func(phone, hash string) (*models.User, error) {
			return nil, repository.ErrDuplicatePhone
		},
	}
	svc := newTestAuth(mock)

	_, err := svc.Register(context.Background(), "1234567890", "pw")
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestAuthService_Register_RepoErrors(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		mock := &mockUserStore{
			FindByPhoneFn: func(string) (*models.User, error) { return nil, errors.New("db down") },
		}
		_, err := newTestAuth(mock).Register(context.Background(), "1234567890", "pw")
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
	t.Run("insert", func(t *testing.T) {
		mock := &mockUserStore{
			FindByPhoneFn: notFound,
			InsertFn:      func(string, string) (*models.User, error) { return nil, errors.New("disk full") },
		}
		_, err := newTestAuth(mock).Register(context.Background(), "1234567890", "pw")
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	mock := &mockUserStore{
		FindByPhoneFn: notFound,
		InsertFn: func(string, string) (*models.User, error) {
			t.Fatal("Insert should not be called when hashing fails")
			return nil, nil
		},
	}
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}

	_, err := newTestAuth(mock).Register(context.Background(), "1234567890", string(long))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

// --- Login tests ---

func TestAuthService_Login_Success(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("letmein")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	user := &models.User{ID: 7, Phone: "5551234567", PasswordHash: hash}

	mock := &mockUserStore{
		FindByPhoneFn: func(phone string) (*models.User, error) {
			if phone != "5551234567" {
				t.Fatalf("expected phone '5551234567', got %q", phone)
			}
			return user, nil
		},
	}
	svc := NewAuthService(mock, hasher, NewJWTIssuer([]byte("test-key"), time.Hour))

	token, err := svc.Login(context.Background(), "5551234567", "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Validate the token parses and returns the same phone.
	got, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if got != "5551234567" {
		t.Fatalf("expected phone from token, got %q", got)
	}
	if len(mock.findCalls) != 1 {
		t.Fatalf("expected 1 FindByPhone call, got %d", len(mock.findCalls))
	}
}

func TestAuthService_Login_UnknownAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	correctHash, err := hasher.Hash("correct")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	mock := &mockUserStore{
		FindByPhoneFn: func(phone string) (*models.User, error) {
			if phone == "1111111111" {
				return &models.User{ID: 1, Phone: phone, PasswordHash: correctHash}, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(mock, hasher, DemoIssuer{})

	_, errUnknown := svc.Login(context.Background(), "9999999999", "whatever")
	_, errWrong := svc.Login(context.Background(), "1111111111", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors must not reveal which check failed: %q vs %q", errUnknown, errWrong)
	}
}

func TestAuthService_Login_InvalidPhone(t *testing.T) {
	mock := &mockUserStore{}
	_, err := newTestAuth(mock).Login(context.Background(), "abc", "pw")
	if !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if len(mock.findCalls) != 0 {
		t.Fatalf("store must not be queried for invalid phones")
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	mock := &mockUserStore{
		FindByPhoneFn: func(string) (*models.User, error) { return nil, errors.New("query failed") },
	}
	_, err := newTestAuth(mock).Login(context.Background(), "1234567890", "pw")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestAuthService_ListPhones(t *testing.T) {
	mock := &mockUserStore{
		ListPhonesFn: func() ([]string, error) { return []string{"1234567890"}, nil },
	}
	got, err := newTestAuth(mock).ListPhones(context.Background())
	if err != nil || len(got) != 1 || got[0] != "1234567890" {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}

	mock.ListPhonesFn = func() ([]string, error) { return nil, errors.New("gone") }
	if _, err := newTestAuth(mock).ListPhones(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

// --- end to end over the in-memory store ---

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := newTestAuth(repository.NewMemoryUserStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "1234567890", "pw1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "1234567890", "pw2"); !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("second register: expected ErrDuplicatePhone, got %v", err)
	}
	if _, err := svc.Login(ctx, "1234567890", "pw1"); err != nil {
		t.Fatalf("login with original password: %v", err)
	}
	if _, err := svc.Login(ctx, "1234567890", "pw2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("login with rejected password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ConcurrentRegisterSamePhone(t *testing.T) {
	const callers = 20
	svc := newTestAuth(repository.NewMemoryUserStore())

	results := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(context.Background(), "5550001234", fmt.Sprintf("pw-%d", i))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicatePhone):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != callers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", callers-1, ok, dup)
	}
}
