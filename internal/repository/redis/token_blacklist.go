package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenBlacklist реализует repository.TokenBlacklist на Redis.
// Ключ живет ровно до истечения токена.
type TokenBlacklist struct {
	client redis.UniversalClient
}

// NewTokenBlacklist создает черный список токенов
func NewTokenBlacklist(client redis.UniversalClient) (*TokenBlacklist, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for TokenBlacklist")
	}
	return &TokenBlacklist{client: client}, nil
}

// Revoke помечает токен отозванным на ttl
func (b *TokenBlacklist) Revoke(tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return b.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked проверяет, отозван ли токен
func (b *TokenBlacklist) IsRevoked(tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := b.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
