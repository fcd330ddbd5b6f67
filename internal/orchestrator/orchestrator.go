package orchestrator

import (
	"context"
	"fmt"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/docker"
	httpserver "github.com/EricMurray-e-m-dev/infra-manager/internal/http"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/metrics"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/minio"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/mongodb"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/postgres"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/qdrant"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/redis"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DockerConnector opens the long-lived container runtime client.
type DockerConnector func(ctx context.Context) (docker.Session, error)

// Orchestrator wires the adapters to the HTTP API and owns their lifecycle.
//
// Lifecycle:
//  1. Start() - connects to Docker (optional), builds the adapters and the HTTP server
//  2. Run() - serves until the context is cancelled
//  3. Stop() - shuts the server down and releases the Docker client
//
// Only Docker is connected up front. Every other service is dialled per request,
// so an unreachable service never prevents startup.
type Orchestrator struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	connectDocker DockerConnector
	dockerSession docker.Session
	docker        *docker.Adapter

	registry   *adapter.Registry
	httpServer *httpserver.Server
}

type Option func(*Orchestrator)

func WithDockerConnector(connect DockerConnector) Option {
	return func(o *Orchestrator) { o.connectDocker = connect }
}

// NewOrchestrator creates a new Orchestrator instance with the provided configuration.
// The orchestrator is not started until Start() is called.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:        cfg,
		logger:        logger,
		metrics:       metrics.New(),
		connectDocker: ConnectDocker,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ConnectDocker creates a client from the environment and pings the daemon.
func ConnectDocker(ctx context.Context) (docker.Session, error) {
	client, err := docker.NewClient()
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (o *Orchestrator) Start(ctx context.Context) error {
	o.logger.Info("Starting orchestrator")

	o.initializeDocker(ctx)

	if err := o.initializeAdapters(); err != nil {
		return fmt.Errorf("failed to initialize adapters: %w", err)
	}

	o.httpServer = httpserver.NewServer(o.registry, o.docker, o.metrics, o.logger)

	o.logger.Info("Orchestrator started", zap.Strings("services", o.registry.Names()))
	return nil
}

// initializeDocker is optional: on failure the container routes report the client as unavailable.
func (o *Orchestrator) initializeDocker(ctx context.Context) {
	session, err := o.connectDocker(ctx)
	if err != nil {
		o.logger.Warn("Docker client not available", zap.Error(err))
		session = nil
	}

	o.dockerSession = session
	o.docker = docker.NewAdapter(session, o.config.ContainerPrefix, o.logger, docker.WithObserver(o.metrics))
}

func (o *Orchestrator) initializeAdapters() error {
	registry, err := adapter.NewRegistry(
		redis.NewAdapter(o.config.Redis, o.logger),
		postgres.NewAdapter(o.config.Postgres, o.logger, postgres.WithObserver(o.metrics)),
		minio.NewAdapter(o.config.Minio, o.logger, minio.WithObserver(o.metrics)),
		qdrant.NewAdapter(o.config.Qdrant, o.logger, qdrant.WithObserver(o.metrics)),
		mongodb.NewAdapter(o.config.MongoDB, o.logger, mongodb.WithObserver(o.metrics)),
		o.docker,
	)
	if err != nil {
		return err
	}

	o.registry = registry
	return nil
}

func (o *Orchestrator) Registry() *adapter.Registry {
	return o.registry
}

func (o *Orchestrator) Containers() *docker.Adapter {
	return o.docker
}

// Run serves the HTTP API and blocks until ctx is cancelled or the server fails.
func (o *Orchestrator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := o.httpServer.Start(o.config.ListenAddr()); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return o.httpServer.Stop()
	})

	return g.Wait()
}

// Stop releases the Docker client. The HTTP server is stopped by Run when its context ends.
func (o *Orchestrator) Stop() error {
	o.logger.Info("Stopping orchestrator")

	if o.dockerSession != nil {
		if err := o.dockerSession.Close(); err != nil {
			o.logger.Warn("Error closing Docker client", zap.Error(err))
		}
	}

	o.logger.Info("Orchestrator stopped")
	return nil
}
