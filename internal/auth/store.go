package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix = "refresh:"
	resetKeyPrefix   = "pwreset:"

	resetTokenTTL = time.Hour
)

// Store keeps the refresh-token whitelist and one-time password-reset
// tokens in Redis. Both expire via TTL.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a new token store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// PutRefresh whitelists a refresh token's jti for its lifetime.
func (s *Store) PutRefresh(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKeyPrefix+jti, userID.String(), ttl).Err()
}

// TakeRefresh removes the jti from the whitelist and reports whether it
// was present. A refresh token is single-use: rotation and revocation
// both go through here.
func (s *Store) TakeRefresh(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Del(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateResetToken stores a one-time password-reset token for the user,
// valid for one hour.
func (s *Store) CreateResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, resetKeyPrefix+token, userID.String(), resetTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken resolves and deletes a reset token. Fails if the
// token is unknown, expired, or already used.
func (s *Store) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	key := resetKeyPrefix + token
	val, err := s.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
