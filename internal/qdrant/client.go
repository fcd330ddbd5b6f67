package qdrant

import (
	"context"
	"fmt"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

// Session is the slice of the Qdrant API the adapter reads.
type Session interface {
	Version(ctx context.Context) (string, error)
	ListCollections(ctx context.Context) ([]string, error)
	CollectionCounts(ctx context.Context, name string) (vectors, points uint64, err error)
	Close() error
}

type Dialer func(ctx context.Context) (Session, error)

func NewDialer(cfg config.QdrantConfig) Dialer {
	return func(ctx context.Context) (Session, error) {
		return NewClient(cfg.Host, cfg.GRPCPort, cfg.APIKey)
	}
}

// Client talks to Qdrant over gRPC.
type Client struct {
	qc *qdrant.Client
}

// ClientConfig is the gRPC client configuration for one Qdrant server.
func ClientConfig(host string, port int, apiKey string) *qdrant.Config {
	// Version already issues the health call; the client's own check would repeat it
	return &qdrant.Config{
		Host:                   host,
		Port:                   port,
		APIKey:                 apiKey,
		SkipCompatibilityCheck: true,
	}
}

func NewClient(host string, port int, apiKey string) (*Client, error) {
	qc, err := qdrant.NewClient(ClientConfig(host, port, apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &Client{qc: qc}, nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	reply, err := c.qc.HealthCheck(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to reach qdrant: %w", err)
	}
	return reply.GetVersion(), nil
}

func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	names, err := c.qc.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (c *Client) CollectionCounts(ctx context.Context, name string) (uint64, uint64, error) {
	info, err := c.qc.GetCollectionInfo(ctx, name)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get collection %s: %w", name, err)
	}
	return info.GetIndexedVectorsCount(), info.GetPointsCount(), nil
}

func (c *Client) Close() error {
	return c.qc.Close()
}
