package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// addBatchSize bounds the members sent in a single ZADD.
const addBatchSize = 500

// RedisOptions configures the connection pool used by RedisIndex.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	MaxIdle     int
	IdleTimeout time.Duration
}

// NewRedisPool creates a redigo pool from opts.
func NewRedisPool(opts RedisOptions) *redis.Pool {
	maxIdle := opts.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 4
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = 4 * time.Minute
	}
	return &redis.Pool{
		MaxIdle:     maxIdle,
		IdleTimeout: idle,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", opts.Addr,
				redis.DialPassword(opts.Password),
				redis.DialDatabase(opts.DB),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// RedisIndex stores the prefix set in a single Redis sorted set where every
// member has score 0, so ZRANK and ZRANGE follow lexicographic order.
type RedisIndex struct {
	pool *redis.Pool
	key  string
}

// NewRedisIndex returns an index over the sorted set named key.
func NewRedisIndex(pool *redis.Pool, key string) *RedisIndex {
	if key == "" {
		key = DefaultKey
	}
	return &RedisIndex{pool: pool, key: key}
}

// RankOf implements Index using ZRANK.
func (ri *RedisIndex) RankOf(ctx context.Context, member string) (int64, bool, error) {
	conn, err := ri.pool.GetContext(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	rank, err := redis.Int64(redis.DoContext(conn, ctx, "ZRANK", ri.key, member))
	if errors.Is(err, redis.ErrNil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rank, true, nil
}

// RangeByRank implements Index using ZRANGE.
func (ri *RedisIndex) RangeByRank(ctx context.Context, start, stop int64) ([]string, error) {
	conn, err := ri.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	return redis.Strings(redis.DoContext(conn, ctx, "ZRANGE", ri.key, start, stop))
}

// AddMembers implements Writer. Members are pipelined in batches of ZADD.
func (ri *RedisIndex) AddMembers(ctx context.Context, members []string) error {
	if len(members) == 0 {
		return nil
	}
	conn, err := ri.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	batches := 0
	for start := 0; start < len(members); start += addBatchSize {
		end := min(start+addBatchSize, len(members))
		args := redis.Args{}.Add(ri.key)
		for _, m := range members[start:end] {
			args = args.Add(0, m)
		}
		if err := conn.Send("ZADD", args...); err != nil {
			return fmt.Errorf("queue ZADD: %w", err)
		}
		batches++
	}
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("flush ZADD pipeline: %w", err)
	}
	for i := 0; i < batches; i++ {
		if _, err := redis.ReceiveContext(conn, ctx); err != nil {
			return fmt.Errorf("ZADD batch %d: %w", i, err)
		}
	}
	return nil
}

// Clear implements Writer by deleting the sorted set.
func (ri *RedisIndex) Clear(ctx context.Context) error {
	conn, err := ri.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	_, err = redis.DoContext(conn, ctx, "DEL", ri.key)
	return err
}
