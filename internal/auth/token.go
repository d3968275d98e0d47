package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogd/internal/models"
)

// ErrInvalidToken reports a token that failed signature, expiry or shape
// checks. Callers treat it as a 401 without detail leakage.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload carried by an access token.
type Claims struct {
	UserName      string `json:"user_name"`
	ProfilePicKey string `json:"profile_pic_key"`
	IsAdmin       bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Identity rebuilds the snapshot recorded in the token.
func (c *Claims) Identity() models.Identity {
	return models.Identity{
		UserID:        c.Subject,
		UserName:      c.UserName,
		ProfilePicKey: c.ProfilePicKey,
	}
}

// TokenIssuer signs and verifies access tokens with an HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer. The secret must be non-empty.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue returns a signed token carrying the user's identity and role.
func (t *TokenIssuer) Issue(user *models.User, now time.Time) (string, error) {
	if user == nil {
		return "", fmt.Errorf("user is required")
	}

	claims := Claims{
		UserName:      user.UserName,
		ProfilePicKey: user.ProfilePicKey,
		IsAdmin:       user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry and returns the embedded claims.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
