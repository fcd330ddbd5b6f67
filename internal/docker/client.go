package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Session is the read-only part of the Docker API the adapter uses.
type Session interface {
	Ping(ctx context.Context) error
	ListContainers(ctx context.Context) ([]types.Container, error)
	HealthStatus(ctx context.Context, containerID string) (string, error)
	ImageTags(ctx context.Context, imageID string) ([]string, error)
	Host() string
	Close() error
}

type Client struct {
	cli *client.Client
}

// NewClient reads DOCKER_HOST and friends from the environment.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Client{cli: cli}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("Docker daemon not available: %w", err)
	}
	return nil
}

func (c *Client) ListContainers(ctx context.Context) ([]types.Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}

// HealthStatus is empty when the container defines no health check.
func (c *Client) HealthStatus(ctx context.Context, containerID string) (string, error) {
	inspect, err := c.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container: %w", err)
	}

	if inspect.State == nil || inspect.State.Health == nil {
		return "", nil
	}
	return inspect.State.Health.Status, nil
}

// ImageTags returns the repo tags of an image, empty for an untagged one.
func (c *Client) ImageTags(ctx context.Context, imageID string) ([]string, error) {
	inspect, _, err := c.cli.ImageInspectWithRaw(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect image %s: %w", imageID, err)
	}
	return inspect.RepoTags, nil
}

func (c *Client) Host() string {
	return c.cli.DaemonHost()
}

func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
