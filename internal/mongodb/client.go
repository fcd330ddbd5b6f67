package mongodb

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const serverSelectionTimeout = 5 * time.Second

// Session is the set of MongoDB calls the adapter makes.
type Session interface {
	Ping(ctx context.Context) error
	ListDatabaseNames(ctx context.Context) ([]string, error)
	ListCollectionNames(ctx context.Context, database string) ([]string, error)
	DropDatabase(ctx context.Context, database string) error
	Close(ctx context.Context) error
}

type Dialer func(ctx context.Context) (Session, error)

func NewDialer(cfg config.MongoDBConfig) Dialer {
	return func(ctx context.Context) (Session, error) {
		return Connect(ctx, ClientOptions(cfg))
	}
}

// ClientOptions builds driver options for a single, directly addressed server.
func ClientOptions(cfg config.MongoDBConfig) *options.ClientOptions {
	opts := options.Client().
		SetHosts([]string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))}).
		SetServerSelectionTimeout(serverSelectionTimeout)

	if cfg.User != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.User,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		})
	}
	return opts
}

type Client struct {
	mc *mongo.Client
}

// Connect starts the driver. It does not contact the server; the first
// command does, bounded by the server selection timeout.
func Connect(ctx context.Context, opts *options.ClientOptions) (*Client, error) {
	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return &Client{mc: mc}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.mc.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

func (c *Client) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := c.mc.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return names, nil
}

func (c *Client) ListCollectionNames(ctx context.Context, database string) ([]string, error) {
	names, err := c.mc.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections in %s: %w", database, err)
	}
	return names, nil
}

func (c *Client) DropDatabase(ctx context.Context, database string) error {
	if err := c.mc.Database(database).Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", database, err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}
