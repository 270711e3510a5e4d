package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore 保存每个用户当前有效的令牌，用于单点登录校验
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

// SetUserToken 新登录覆盖旧令牌
func (s *TokenStore) SetUserToken(ctx context.Context, userID int64, aToken, rToken string, aExp, rExp time.Duration) error {
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, userKey(KeyUserAccessToken, userID), aToken, aExp)
	pipe.Set(ctx, userKey(KeyUserRefreshToken, userID), rToken, rExp)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set user token pipeline exec failed (user_id: %d): %w", userID, err)
	}
	return nil
}

// GetUserAccessToken 没有记录时返回空串
func (s *TokenStore) GetUserAccessToken(ctx context.Context, userID int64) (string, error) {
	tok, err := s.rdb.Get(ctx, userKey(KeyUserAccessToken, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tok, err
}
