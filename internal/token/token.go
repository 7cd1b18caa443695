package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

// DefaultExpiry is used when JWT_EXPIRY is missing or unparseable.
const DefaultExpiry = 30 * 24 * time.Hour

var (
	ErrSigning      = errors.New("failed to generate token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the signed payload: subject carries the user id, the rest
// scopes every request to a country and a role.
type Claims struct {
	Username string `json:"username"`
	Country  string `json:"country"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	Secret []byte
	Expiry time.Duration
}

func NewService(secret []byte, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Service{Secret: secret, Expiry: expiry}
}

// Issue mints a signed token for an already authenticated user and
// returns the raw token, its jti and the lifetime in seconds.
func (s *Service) Issue(user *models.User) (string, string, int64, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := Claims{
		Username: user.Username,
		Country:  user.Country,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Expiry)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return "", "", 0, ErrSigning
	}
	return signed, jti, int64(s.Expiry.Seconds()), nil
}

// Verify checks signature and expiry. Every failure mode collapses
// into the same error so callers cannot distinguish a forged token
// from an expired one.
func (s *Service) Verify(raw string) (*Claims, error) {
	var claims Claims
	t, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Decode parses without verification, for expiry inspection only.
// Returns nil on malformed input.
func (s *Service) Decode(raw string) *Claims {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil
	}
	return &claims
}

// ParseExpiry parses "<integer><unit>" where unit is one of s, m, h
// or d. A missing or unrecognized unit means days. Anything else
// falls back to DefaultExpiry.
func ParseExpiry(v string) time.Duration {
	if v == "" {
		return DefaultExpiry
	}

	num := v
	unit := 24 * time.Hour
	switch v[len(v)-1] {
	case 's':
		num, unit = v[:len(v)-1], time.Second
	case 'm':
		num, unit = v[:len(v)-1], time.Minute
	case 'h':
		num, unit = v[:len(v)-1], time.Hour
	case 'd':
		num = v[:len(v)-1]
	default:
		if v[len(v)-1] < '0' || v[len(v)-1] > '9' {
			num = v[:len(v)-1]
		}
	}

	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return DefaultExpiry
	}
	return time.Duration(n) * unit
}
