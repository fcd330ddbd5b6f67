package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/redis/go-redis/v9"
)

// Session is what the adapter needs from a live Redis connection.
type Session interface {
	Info(ctx context.Context) (map[string]string, error)
	DBSize(ctx context.Context) (int64, error)
	Close() error
}

type Dialer func(ctx context.Context) (Session, error)

func NewDialer(cfg config.RedisConfig) Dialer {
	return func(ctx context.Context) (Session, error) {
		return NewClient(ctx, net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), cfg.Password, cfg.DB)
	}
}

type Client struct {
	rdb *redis.Client
}

// NewClient connects and pings; a client that cannot ping is closed again.
func NewClient(ctx context.Context, addr string, pword string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pword,
		DB:       db,
		// One request, one connection
		PoolSize: 1,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Info(ctx context.Context) (map[string]string, error) {
	raw, err := c.rdb.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis info: %w", err)
	}
	return ParseInfo(raw), nil
}

func (c *Client) DBSize(ctx context.Context) (int64, error) {
	size, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read redis dbsize: %w", err)
	}
	return size, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
