// Package tokens keeps short-lived token state in Redis: single-use
// password reset tokens and the ids of revoked access tokens.
package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps Redis failures.
var ErrUnavailable = errors.New("token store unavailable")

const defaultPrefix = "medcasegen"

type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// reset tokens are stored under their digest so a key dump does not leak them
func (s *RedisStore) resetKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":reset:" + hex.EncodeToString(sum[:])
}

func (s *RedisStore) revokedKey(jti string) string {
	return s.prefix + ":revoked:" + jti
}

// SaveReset remembers that token resets the password of userID for ttl.
func (s *RedisStore) SaveReset(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.resetKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ConsumeReset returns the user id of token and the time it had left, and
// deletes it, so a token works once. Unknown or expired tokens yield
// common.ErrInvalidToken.
func (s *RedisStore) ConsumeReset(ctx context.Context, token string) (string, time.Duration, error) {
	key := s.resetKey(token)

	var ttl *redis.DurationCmd
	var get *redis.StringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		ttl = pipe.PTTL(ctx, key)
		get = pipe.GetDel(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	userID, err := get.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", 0, common.ErrInvalidToken
		}
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return userID, ttl.Val(), nil
}

// Revoke blocks the access token jti for ttl, its remaining lifetime.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, s.revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}
