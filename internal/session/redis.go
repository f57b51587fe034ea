package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/utils"
)

const keyPrefix = "session:"

// Redis stores sessions as string keys with a TTL, so expiry is enforced
// by Redis itself and sessions survive process restarts.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an established Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Create(ctx context.Context, accountID uint64, ttl time.Duration) (string, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	key := keyPrefix + utils.HashToken(token)
	if err := r.client.Set(ctx, key, accountID, ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

func (r *Redis) Resolve(ctx context.Context, token string) (uint64, error) {
	v, err := r.client.Get(ctx, keyPrefix+utils.HashToken(token)).Result()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, ErrNoSession
	}
	return id, nil
}

func (r *Redis) Destroy(ctx context.Context, token string) error {
	return r.client.Del(ctx, keyPrefix+utils.HashToken(token)).Err()
}
