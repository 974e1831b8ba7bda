// Package tokens issues and verifies the signed, expiring tokens that carry
// a session: a short-lived access token and a long-lived refresh token. Both
// are HS256 JWTs; the kind claim keeps a refresh token from being replayed
// as an access token.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/healthlog/internal/common"
)

// Kind discriminates the two token flavors.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims carries the account id and token kind next to the registered set.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
	Kind      string `json:"kind"`
}

// Codec signs and verifies token pairs with a shared HMAC secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a fresh access/refresh pair for accountID. Each token gets
// its own uuid jti, so pairs issued for the same account at the same instant
// still differ.
func (c *Codec) IssuePair(accountID string) (access string, refresh string, err error) {
	access, err = c.issue(accountID, KindAccess, c.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = c.issue(accountID, KindRefresh, c.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (c *Codec) issue(accountID string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Kind:      string(kind),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses the token and returns its account id and kind. Any failure
// (bad signature, expired, malformed, wrong algorithm) collapses into
// common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (string, Kind, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", common.ErrInvalidToken
	}
	if claims.AccountID == "" {
		return "", "", common.ErrInvalidToken
	}
	return claims.AccountID, Kind(claims.Kind), nil
}
