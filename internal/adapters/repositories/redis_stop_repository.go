package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"slices"

	"github.com/redis/go-redis/v9"
)

const DefaultStopsKey = "route-optimizer:stops"

// Redis-backed implementation of the StopRepository port. Stops are kept as
// a list of JSON records under a single key.
type RedisStopRepository struct {
	client *redis.Client
	key    string
}

func NewRedisStopRepository(client *redis.Client, key string) *RedisStopRepository {
	if key == "" {
		key = DefaultStopsKey
	}
	return &RedisStopRepository{client: client, key: key}
}

// Return all stored stops ordered by position.
func (r *RedisStopRepository) ListStops(ctx context.Context) (_ []*domain.Stop, err error) {
	defer obs.Time(ctx, "stops.redis.List")(&err)

	if r.client == nil {
		return nil, errors.New("redis stop repository: client is nil")
	}

	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list stops: lrange %q: %w", r.key, err)
	}

	stops := make([]*domain.Stop, 0, len(raw))
	for i, item := range raw {
		var rec stopRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("list stops: decode item #%d: %w", i+1, err)
		}
		stops = append(stops, rec.toStop())
	}

	slices.SortStableFunc(stops, func(a, b *domain.Stop) int { return a.Position - b.Position })

	return stops, nil
}

// Replace every stored stop atomically.
func (r *RedisStopRepository) ReplaceStops(ctx context.Context, stops []*domain.Stop) (err error) {
	defer obs.Time(ctx, "stops.redis.Replace")(&err)

	if r.client == nil {
		return errors.New("redis stop repository: client is nil")
	}

	values := make([]any, 0, len(stops))
	for _, s := range stops {
		b, err := json.Marshal(toRecord(s))
		if err != nil {
			return fmt.Errorf("replace stops: encode position=%d: %w", s.Position, err)
		}
		values = append(values, b)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.RPush(ctx, r.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace stops: write %q: %w", r.key, err)
	}

	return nil
}
