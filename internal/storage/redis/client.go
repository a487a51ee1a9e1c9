package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
	"github.com/dtroode/userkeeper-server/internal/storage/codec"
)

// redisAPI is the subset of *goredis.Client used by Client.
type redisAPI interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

var _ model.Snapshotter = (*Client)(nil)

// Client stores the user collection as a JSON document under one key.
type Client struct {
	api    redisAPI
	key    string
	logger *logger.Logger
}

// Connect parses a redis:// URL, opens a client and verifies it with a ping.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// NewClient creates a redis snapshot Client storing under key.
func NewClient(api redisAPI, key string, logger *logger.Logger) *Client {
	return &Client{
		api:    api,
		key:    key,
		logger: logger,
	}
}

// Load reads the snapshot key. A missing or malformed value yields an empty
// collection.
func (c *Client) Load(ctx context.Context) ([]model.User, error) {
	data, err := c.api.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.logger.Info("Redis storage: snapshot key not found, starting empty", "key", c.key)
		return []model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", c.key, err)
	}

	users, fallback := codec.DecodeOrEmpty(data)
	if fallback {
		c.logger.Warn("Redis storage: snapshot value is malformed, starting empty", "key", c.key)
	}
	return users, nil
}

// Save overwrites the snapshot key with the collection.
func (c *Client) Save(ctx context.Context, users []model.User) error {
	data, err := codec.Encode(users)
	if err != nil {
		return err
	}

	if err := c.api.Set(ctx, c.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", c.key, err)
	}
	return nil
}
