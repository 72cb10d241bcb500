package kvstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/redis/go-redis/v9"
)

// Redis persists snapshots without expiration: a player's portfolio must
// survive restarts indefinitely.
type Redis struct {
	redis *redis.Client
}

func NewRedis(redisClient *redis.Client) *Redis {
	return &Redis{redis: redisClient}
}

func (s *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return nil, err
	}

	return res, nil
}

func (s *Redis) Save(ctx context.Context, key string, value []byte) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	err := s.redis.Set(ctx, key, value, 0).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	return nil
}
