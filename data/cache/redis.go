package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("error not found in cache")

const (
	quoteKeyPrefix = "quote:"
	newsKey        = "news:feed"
)

// RedisCache holds the latest simulated quote per symbol and the current news
// feed. Quotes expire so a stalled ticker never serves ancient prices.
type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetQuotes(ctx context.Context, quotes map[string]decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetQuotes start", slog.String("rqID", rqID))

	pipe := r.redis.Pipeline()
	for symbol, price := range quotes {
		pipe.Set(ctx, quoteKeyPrefix+symbol, price.String(), r.cfg.Cache.QuotesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetQuotes completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, quoteKeyPrefix+symbol).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(res)
	if err != nil {
		slog.Error(
			"can't parse cached quote",
			slog.String("rqID", rqID),
			slog.String("symbol", symbol),
			slog.String("resultFromRedis", res),
		)
		return decimal.Zero, errors.New("can't parse cached quote")
	}

	return price, nil
}

// GetQuotes returns the cached price for every requested symbol. Symbols with
// no cached quote are simply absent from the result.
func (r *RedisCache) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	keys := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		keys = append(keys, quoteKeyPrefix+symbol)
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed on redis.MGet", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, err
	}

	quotes := make(map[string]decimal.Decimal, len(symbols))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			slog.Error("can't parse cached quote", slog.String("rqID", rqID), slog.String("symbol", symbols[i]))
			continue
		}
		quotes[symbols[i]] = price
	}

	return quotes, nil
}

func (r *RedisCache) SetNews(ctx context.Context, news []model.NewsItem) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	newsJson, err := json.Marshal(news)
	if err != nil {
		slog.Error("can't marshall news feed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall news feed")
	}

	err = r.redis.Set(ctx, newsKey, newsJson, r.cfg.Cache.NewsExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) GetNews(ctx context.Context) ([]model.NewsItem, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, newsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, err
	}

	var news []model.NewsItem
	err = json.Unmarshal([]byte(res), &news)
	if err != nil {
		slog.Error("can't unmarshall news feed", slog.String("rqID", rqID), slog.String("resultFromRedis", res))
		return nil, errors.New("can't unmarshall news feed")
	}

	return news, nil
}
