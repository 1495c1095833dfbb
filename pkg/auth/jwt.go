// Package auth issues and validates the bearer tokens that bind an external
// address to its registered account. The directory treats a validated token
// subject as the authoritative caller identity.
package auth

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Validation errors.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by a platform token. The subject is the caller address.
type Claims struct {
	Address string `json:"address"`

	jwtlib.RegisteredClaims
}

// Service signs and validates address-bound tokens.
type Service interface {
	IssueToken(address string) (string, error)
	ValidateToken(token string) (Claims, error)
}

// HMACService implements Service with HS256 signing.
type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

// NewHMACService creates a token service with the given secret and lifetime.
func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// IssueToken signs a token whose subject and address claim is the caller
// address.
func (s *HMACService) IssueToken(address string) (string, error) {
	if len(s.secret) == 0 || s.expiresIn <= 0 {
		return "", ErrTokenInvalid
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c := Claims{
		Address: address,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   address,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *HMACService) ValidateToken(token string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return s.now() }),
	)

	var c Claims
	tok, err := p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || strings.TrimSpace(c.Address) == "" {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
