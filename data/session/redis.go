package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error session not found")

const keyPrefix = "session:"

// RedisSession keeps per-chat dialog state with a sliding expiration.
type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (s *RedisSession) GetSession(ctx context.Context, key string) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := s.redis.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	chatSession := model.Session{}
	err = json.Unmarshal([]byte(res), &chatSession)
	if err != nil {
		slog.Error(
			"can't unmarshall session",
			slog.String("rqID", rqID),
			slog.String("key", key),
			slog.String("resultFromRedis", res),
		)
		return model.Session{}, errors.New("can't unmarshall session")
	}

	return chatSession, nil
}

func (s *RedisSession) SetSession(ctx context.Context, key string, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	sessionJson, err := json.Marshal(chatSession)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return errors.New("can't marshall session")
	}

	err = s.redis.Set(ctx, keyPrefix+key, sessionJson, s.cfg.SessionExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	return nil
}
