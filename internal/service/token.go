package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"phoneauth/internal/config"
	"phoneauth/internal/models"
	"phoneauth/internal/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer issues and checks the tokens returned by register and login.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
	// Parse returns the phone the token was issued for.
	Parse(token string) (string, error)
}

// NewTokenIssuer builds the issuer selected by auth.token_mode.
func NewTokenIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	switch cfg.TokenMode {
	case config.TokenModeJWT:
		if cfg.SigningKey == "" {
			return nil, errors.New("jwt issuer needs a signing key")
		}
		return NewJWTIssuer([]byte(cfg.SigningKey), cfg.TokenTTL), nil
	case config.TokenModeDemo:
		return DemoIssuer{}, nil
	default:
		return nil, fmt.Errorf("unknown token mode %q", cfg.TokenMode)
	}
}

// Claims defines JWT claims. Subject holds the phone.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// JWTIssuer signs HS256 tokens that expire after ttl.
type JWTIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

var _ TokenIssuer = (*JWTIssuer)(nil)

func NewJWTIssuer(key []byte, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{key: key, ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) Issue(u models.User) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Phone,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: u.ID,
	})
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Parse(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.key, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if phone.Validate(claims.Subject) != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

const demoTokenPrefix = "demo-token-"

// DemoIssuer reproduces the legacy unsigned "demo-token-<phone>" scheme.
// Anyone can forge these; use it only for local development.
type DemoIssuer struct{}

var _ TokenIssuer = DemoIssuer{}

func (DemoIssuer) Issue(u models.User) (string, error) {
	return demoTokenPrefix + u.Phone, nil
}

func (DemoIssuer) Parse(token string) (string, error) {
	p, ok := strings.CutPrefix(token, demoTokenPrefix)
	if !ok || phone.Validate(p) != nil {
		return "", ErrInvalidToken
	}
	return p, nil
}
