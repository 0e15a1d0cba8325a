// Package auth issues and verifies session tokens and password reset secrets.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stockmana/internal/models"
)

var (
	ErrInvalidToken     = errors.New("invalid session token")
	ErrInvalidOrExpired = errors.New("invalid or expired reset secret")
)

const resetSecretBytes = 32

type Config struct {
	Secret     string
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

// ResetLookup finds a reset record by hash that is still valid at now.
type ResetLookup interface {
	GetValidByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
}

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// ResetSecret is a freshly minted reset secret. Plain goes out by email and
// Hash is what gets stored.
type ResetSecret struct {
	Plain     string
	Hash      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type TokenService struct {
	cfg    Config
	resets ResetLookup
	now    func() time.Time
}

type Option func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg Config, resets ResetLookup, opts ...Option) *TokenService {
	s := &TokenService{cfg: cfg, resets: resets, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) SessionTTL() time.Duration { return s.cfg.SessionTTL }

func (s *TokenService) IssueSessionToken(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// VerifySessionToken checks signature and expiry and returns the user id.
// It does not check that the user still exists.
func (s *TokenService) VerifySessionToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *TokenService) IssueResetSecret(userID string) (ResetSecret, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return ResetSecret{}, err
	}

	plain := hex.EncodeToString(buf) + userID
	now := s.now()
	return ResetSecret{
		Plain:     plain,
		Hash:      HashResetSecret(plain),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.ResetTTL),
	}, nil
}

// VerifyResetSecret resolves a plain secret to its live record. Unknown and
// expired secrets both return ErrInvalidOrExpired.
func (s *TokenService) VerifyResetSecret(ctx context.Context, plain string) (*models.PasswordResetToken, error) {
	if plain == "" {
		return nil, ErrInvalidOrExpired
	}
	rec, err := s.resets.GetValidByTokenHash(ctx, HashResetSecret(plain), s.now())
	if err != nil || rec == nil {
		return nil, ErrInvalidOrExpired
	}
	return rec, nil
}

func HashResetSecret(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
