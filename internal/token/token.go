// Package token mints and verifies the two bearer credential kinds used by
// the API. Each kind is signed with its own HS256 key held for the process
// lifetime; restarting the server invalidates all outstanding tokens.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecomarket/storefront/internal/models"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour

	keySize = 32
)

type AccessClaims struct {
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a fixed pair of keys. The keys are
// read-only after construction, so a single Codec is safe for concurrent use.
type Codec struct {
	accessKey  []byte
	refreshKey []byte
}

// NewCodec generates fresh random keys for both token kinds.
func NewCodec() (*Codec, error) {
	access := make([]byte, keySize)
	if _, err := rand.Read(access); err != nil {
		return nil, fmt.Errorf("generate access key: %w", err)
	}
	refresh := make([]byte, keySize)
	if _, err := rand.Read(refresh); err != nil {
		return nil, fmt.Errorf("generate refresh key: %w", err)
	}
	return &Codec{accessKey: access, refreshKey: refresh}, nil
}

// NewCodecWithKeys builds a codec over caller-supplied keys.
func NewCodecWithKeys(accessKey, refreshKey []byte) *Codec {
	return &Codec{accessKey: accessKey, refreshKey: refreshKey}
}

func (c *Codec) MintAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role:        user.RoleName(),
		Authorities: user.Authorities(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.accessKey)
}

func (c *Codec) MintRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.refreshKey)
}

// VerifyAccessToken reports whether the token is a well-formed, correctly
// signed, unexpired access token. It never returns an error to the caller.
func (c *Codec) VerifyAccessToken(tokenStr string) bool {
	_, err := c.parseAccess(tokenStr)
	return err == nil
}

func (c *Codec) VerifyRefreshToken(tokenStr string) bool {
	_, err := c.parseRefresh(tokenStr)
	return err == nil
}

// ExtractSubject returns the access token's subject (the user email).
// Callers must verify the token first; the result for an invalid token is
// the empty string.
func (c *Codec) ExtractSubject(tokenStr string) string {
	claims, err := c.parseAccess(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Subject
}

func (c *Codec) ExtractRefreshSubject(tokenStr string) string {
	claims, err := c.parseRefresh(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Subject
}

func (c *Codec) ExtractRoleClaim(tokenStr string) string {
	claims, err := c.parseAccess(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Role
}

func (c *Codec) parseAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.accessKey, nil
	})
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	return &claims, nil
}

func (c *Codec) parseRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.refreshKey, nil
	})
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	return &claims, nil
}
