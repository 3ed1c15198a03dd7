package xredis

import (
	"context"
	"time"

	"github.com/inkquest-lab/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// List
	RPush(ctx context.Context, key string, values ...string) error
	LMove(ctx context.Context, source, destination string) (string, error)
	LRem(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)

	// Single object
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

// NewClientWithAddr connects to an explicit address. Tests use it to point the
// client at a miniredis instance.
func NewClientWithAddr(ctx context.Context, addr string) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{Addr: addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

func (c *client) RPush(ctx context.Context, key string, values ...string) error {
	args := make([]any, len(values))
	for i := range values {
		args[i] = values[i]
	}

	return c.redisClient.RPush(ctx, key, args...).Err()
}

// LMove pops the head of source and appends it to the tail of destination
// atomically. It returns redis.Nil as error when source is empty.
func (c *client) LMove(ctx context.Context, source, destination string) (string, error) {
	return c.redisClient.LMove(ctx, source, destination, "LEFT", "RIGHT").Result()
}

func (c *client) LRem(ctx context.Context, key, value string) error {
	return c.redisClient.LRem(ctx, key, 1, value).Err()
}

func (c *client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.redisClient.LRange(ctx, key, start, stop).Result()
}

func (c *client) LLen(ctx context.Context, key string) (int64, error) {
	return c.redisClient.LLen(ctx, key).Result()
}

func (c *client) Set(ctx context.Context, key, value string) error {
	return c.redisClient.Set(ctx, key, value, 0).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.redisClient.Get(ctx, key).Result()
}

// IsNil tells if an error is the redis nil reply.
func IsNil(err error) bool {
	return err == redis.Nil
}
