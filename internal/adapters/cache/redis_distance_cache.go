package cache

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache stores distances in one hash per origin station:
// key "distance:{from}", field "{to}", value km.
type RedisDistanceCache struct {
	client *redis.Client
	prefix string
}

func NewRedisDistanceCache(client *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, prefix: "distance"}
}

func (c *RedisDistanceCache) key(from int) string {
	return fmt.Sprintf("%s:%d", c.prefix, from)
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	pairs []domain.StationPair,
) (_ map[domain.StationPair]float64, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("redis distance cache: client is nil")
	}

	byFrom := make(map[int][]int)
	order := make([]int, 0)
	for _, p := range pairs {
		if _, ok := byFrom[p.From]; !ok {
			order = append(order, p.From)
		}
		byFrom[p.From] = append(byFrom[p.From], p.To)
	}
	if len(order) == 0 {
		return map[domain.StationPair]float64{}, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(order))
	for i, from := range order {
		fields := make([]string, len(byFrom[from]))
		for j, to := range byFrom[from] {
			fields[j] = strconv.Itoa(to)
		}
		cmds[i] = pipe.HMGet(ctx, c.key(from), fields...)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get redis distance cache: exec pipeline: %w", err)
	}

	out := make(map[domain.StationPair]float64, len(pairs))
	for i, from := range order {
		vals, err := cmds[i].Result()
		if err != nil {
			return nil, fmt.Errorf("get redis distance cache: hmget %s: %w", c.key(from), err)
		}
		for j, v := range vals {
			s, ok := v.(string)
			if !ok {
				continue
			}
			d, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("get redis distance cache: parse %s[%d]: %w", c.key(from), byFrom[from][j], err)
			}
			out[domain.StationPair{From: from, To: byFrom[from][j]}] = d
		}
	}
	return out, nil
}

// PutMany writes with HSETNX so existing entries are never replaced.
func (c *RedisDistanceCache) PutMany(ctx context.Context, distances map[domain.StationPair]float64) (err error) {
	defer obs.Time(ctx, "distance.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("redis distance cache: client is nil")
	}
	if len(distances) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	for p, d := range distances {
		pipe.HSetNX(ctx, c.key(p.From), strconv.Itoa(p.To), strconv.FormatFloat(d, 'g', -1, 64))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis distance cache: exec pipeline: %w", err)
	}
	return nil
}
