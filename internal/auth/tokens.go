package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenPair is an access + refresh bearer token pair.
type TokenPair struct {
	Access  string
	Refresh string
}

// Tokens issues and verifies JWT pairs. Access tokens are stateless;
// refresh tokens are whitelisted in Redis by their jti so logout and
// rotation can revoke them.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         *Store
}

func NewTokens(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, store *Store) *Tokens {
	return &Tokens{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		store:         store,
	}
}

// Issue creates a token pair for the user and whitelists the refresh
// token.
func (t *Tokens) Issue(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	now := time.Now()

	access, err := signToken(t.accessSecret, jwt.MapClaims{
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"typ": "access",
		"iat": now.Unix(),
		"exp": now.Add(t.accessTTL).Unix(),
	})
	if err != nil {
		return TokenPair{}, err
	}

	refreshJTI := uuid.NewString()
	refresh, err := signToken(t.refreshSecret, jwt.MapClaims{
		"sub": userID.String(),
		"jti": refreshJTI,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(t.refreshTTL).Unix(),
	})
	if err != nil {
		return TokenPair{}, err
	}

	if err := t.store.PutRefresh(ctx, refreshJTI, userID, t.refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess verifies an access token and returns the user ID.
func (t *Tokens) ParseAccess(raw string) (uuid.UUID, error) {
	userID, _, err := parseToken(raw, t.accessSecret, "access")
	return userID, err
}

// Refresh rotates the pair: the presented refresh token must still be
// whitelisted; it is revoked and a fresh pair is issued.
func (t *Tokens) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	userID, jti, err := parseToken(raw, t.refreshSecret, "refresh")
	if err != nil {
		return TokenPair{}, err
	}
	ok, err := t.store.TakeRefresh(ctx, jti)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		return TokenPair{}, ErrInvalidToken
	}
	return t.Issue(ctx, userID)
}

// Revoke drops the refresh token from the whitelist. Revoking an
// already-revoked token is not an error.
func (t *Tokens) Revoke(ctx context.Context, raw string) error {
	_, jti, err := parseToken(raw, t.refreshSecret, "refresh")
	if err != nil {
		return ErrInvalidToken
	}
	_, err = t.store.TakeRefresh(ctx, jti)
	return err
}

func signToken(secret []byte, claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(raw string, secret []byte, wantType string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return uuid.Nil, "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	return userID, jti, nil
}
