package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a credential that failed signature or expiry checks.
var ErrInvalidToken = errors.New("security: invalid token")

// Principal identifies the authenticated user embedded in a verified credential.
type Principal struct {
	UserID uint64 `json:"userId"`
	Login  string `json:"login"`
}

// sessionClaims carries the principal inside the signed token.
type sessionClaims struct {
	UserID uint64 `json:"uid"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256-signed, time-limited session credentials.
// Verification is stateless: a token stays valid until natural expiry even
// after logout.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions constructs a session issuer/verifier.
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, fmt.Errorf("security: empty session secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("security: non-positive session ttl")
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured credential validity window.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue signs a credential embedding the principal with a fixed expiry.
func (s *Sessions) Issue(userID uint64, login string) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, errSign := token.SignedString(s.secret)
	if errSign != nil {
		return "", fmt.Errorf("security: sign token: %w", errSign)
	}
	return signed, nil
}

// Verify validates a credential and returns the embedded principal.
// Bad signatures, wrong signing methods, and expired tokens all map to
// ErrInvalidToken.
func (s *Sessions) Verify(token string) (*Principal, error) {
	claims := &sessionClaims{}
	parsed, errParse := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if errParse != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: claims.UserID, Login: claims.Login}, nil
}
