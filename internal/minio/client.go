package minio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Session is what the adapter needs from an S3 client.
type Session interface {
	ListBuckets(ctx context.Context) ([]string, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjectKeys(ctx context.Context, bucket string) ([]string, error)
	RemoveObjects(ctx context.Context, bucket string, keys []string) error
	RemoveBucket(ctx context.Context, bucket string) error
	Close() error
}

type Dialer func(ctx context.Context) (Session, error)

func NewDialer(cfg config.MinioConfig) Dialer {
	return func(ctx context.Context) (Session, error) {
		return NewClient(cfg)
	}
}

// Endpoint is the parsed form of MINIO_ENDPOINT.
type Endpoint struct {
	Host   string
	Port   int
	Secure bool
}

// Address is host:port as minio-go expects it, without scheme.
func (e Endpoint) Address() string {
	return e.Host + ":" + strconv.Itoa(e.Port)
}

// ParseEndpoint splits an http(s) URL into host, port and TLS flag.
// A missing port defaults to the scheme's well-known port.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid minio endpoint %q: %w", raw, err)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("invalid minio endpoint %q: missing host", raw)
	}

	ep := Endpoint{Host: u.Hostname(), Secure: u.Scheme == "https", Port: 80}
	if ep.Secure {
		ep.Port = 443
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, fmt.Errorf("invalid minio endpoint port %q: %w", p, err)
		}
		ep.Port = port
	}

	return ep, nil
}

type Client struct {
	mc        *minio.Client
	transport *http.Transport
}

// NewClient builds a client with its own transport so Close can release its connections.
func NewClient(cfg config.MinioConfig) (*Client, error) {
	ep, err := ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	transport, err := minio.DefaultTransport(ep.Secure)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio transport: %w", err)
	}

	mc, err := minio.New(ep.Address(), &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    ep.Secure,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{mc: mc, transport: transport}, nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	buckets, err := c.mc.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	return names, nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	return exists, nil
}

// ListObjectKeys walks the whole bucket. On error the keys read so far are returned with it.
func (c *Client) ListObjectKeys(ctx context.Context, bucket string) ([]string, error) {
	// Cancelling stops the lister goroutine if we bail out early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var keys []string
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return keys, fmt.Errorf("failed to list objects in %s: %w", bucket, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// RemoveObjects bulk-deletes keys and joins the per-object failures.
func (c *Client) RemoveObjects(ctx context.Context, bucket string, keys []string) error {
	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	var errs []error
	for removeErr := range c.mc.RemoveObjects(ctx, bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", removeErr.ObjectName, removeErr.Err))
	}
	return errors.Join(errs...)
}

func (c *Client) RemoveBucket(ctx context.Context, bucket string) error {
	if err := c.mc.RemoveBucket(ctx, bucket); err != nil {
		return fmt.Errorf("failed to remove bucket %s: %w", bucket, err)
	}
	return nil
}

func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
