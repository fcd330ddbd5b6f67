package redis

import (
	"context"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"go.uber.org/zap"
)

const serviceName = "redis"

// Adapter reports on the Redis cache. It has no destructive operations.
type Adapter struct {
	cfg    config.RedisConfig
	dial   Dialer
	logger *zap.Logger
}

type Option func(*Adapter)

func WithDialer(dial Dialer) Option {
	return func(a *Adapter) { a.dial = dial }
}

func NewAdapter(cfg config.RedisConfig, logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		cfg:    cfg,
		dial:   NewDialer(cfg),
		logger: logger.With(zap.String("service", serviceName)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return serviceName }

func (a *Adapter) FetchReport(ctx context.Context) (any, error) {
	session, err := a.dial(ctx)
	if err != nil {
		a.logger.Error("Redis connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			a.logger.Debug("Error closing redis connection", zap.Error(err))
		}
	}()

	info, err := session.Info(ctx)
	if err != nil {
		a.logger.Error("Redis info error", zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	keys, err := session.DBSize(ctx)
	if err != nil {
		a.logger.Error("Redis dbsize error", zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	return &models.RedisReport{
		Status:           models.StatusConnected,
		Host:             a.cfg.Host,
		Port:             a.cfg.Port,
		Version:          info["redis_version"],
		UptimeDays:       infoInt(info, "uptime_in_days"),
		UsedMemoryHuman:  info["used_memory_human"],
		ConnectedClients: infoInt(info, "connected_clients"),
		Keys:             keys,
	}, nil
}
