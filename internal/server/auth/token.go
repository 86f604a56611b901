// Package auth implements the token issuer and the password hasher.
// Tokens are stateless HS256 JWTs; the accounts store is the only source of
// truth for whether a refresh token is still the live one.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// TokenUse is the signing context of a token. Access and refresh tokens carry
// different uses so one can never be presented in place of the other.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Claims carried by both token kinds. Role is only set on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role     string   `json:"role,omitempty"`
	TokenUse TokenUse `json:"token_use"`
}

// Issuer mints and verifies signed tokens. The secret is injected at
// construction, read-only afterwards, and must never be logged.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken mints a short-lived token proving identity and role.
func (i *Issuer) IssueAccessToken(accountID, role string) (string, error) {
	return i.sign(accountID, role, UseAccess, i.accessTTL)
}

// IssueRefreshToken mints a long-lived token used solely to obtain new
// access tokens.
func (i *Issuer) IssueRefreshToken(accountID string) (string, error) {
	return i.sign(accountID, "", UseRefresh, i.refreshTTL)
}

func (i *Issuer) sign(accountID, role string, use TokenUse, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:     role,
		TokenUse: use,
	})
	return token.SignedString(i.secret)
}

// Verify parses tokenString and checks signature, expiry and signing context.
// Failures map to common.ErrTokenExpired, common.ErrInvalidToken and
// common.ErrWrongTokenUse respectively.
func (i *Issuer) Verify(tokenString string, use TokenUse) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenUse != use {
		return nil, common.ErrWrongTokenUse
	}
	return claims, nil
}
