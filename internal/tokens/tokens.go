package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeRefresh       = "refresh"
	TypePasswordReset = "password_reset"
)

var (
	ErrMalformed = errors.New("could not validate token")
	ErrExpired   = errors.New("token has expired")
	ErrWrongType = errors.New("wrong token type")
)

// Claims is the payload carried by every token the service signs.
// Access tokens have an empty Type.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies access, refresh and password-reset tokens
// with a single process-wide secret.
type Service struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration

	// Now is overridable for expiry tests.
	Now func() time.Time

	secret []byte
}

func New(secret []byte, algorithm string) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: signing secret is required")
	}
	if algorithm != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("tokens: unsupported algorithm %q", algorithm)
	}
	return &Service{
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   time.Hour,
		Now:        time.Now,
		secret:     secret,
	}, nil
}

func (s *Service) issue(userID, email, typ string, ttl time.Duration, jti string) (string, error) {
	now := s.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Service) IssueAccess(userID, email string) (string, error) {
	return s.issue(userID, email, "", s.AccessTTL, "")
}

func (s *Service) IssueRefresh(userID, email string) (string, error) {
	return s.issue(userID, email, TypeRefresh, s.RefreshTTL, "")
}

// IssueReset mints a password-reset token. The jti makes the token
// single-use: the reset workflow consumes it on success.
func (s *Service) IssueReset(userID, email string) (string, error) {
	return s.issue(userID, email, TypePasswordReset, s.ResetTTL, uuid.NewString())
}

// Verify checks signature and expiry and returns the embedded claims.
// An optional "Bearer " prefix is stripped first. The token type is not
// checked here; refresh tokens go through VerifyRefresh and the reset
// workflow checks the type itself.
func (s *Service) Verify(raw string) (*Claims, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !t.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (s *Service) VerifyRefresh(raw string) (*Claims, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongType
	}
	return claims, nil
}
