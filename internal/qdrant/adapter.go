package qdrant

import (
	"context"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"go.uber.org/zap"
)

const serviceName = "qdrant"

// Adapter reports Qdrant collections and their sizes. It never deletes.
type Adapter struct {
	cfg      config.QdrantConfig
	dial     Dialer
	observer adapter.Observer
	logger   *zap.Logger
}

type Option func(*Adapter)

func WithDialer(dial Dialer) Option {
	return func(a *Adapter) { a.dial = dial }
}

func WithObserver(observer adapter.Observer) Option {
	return func(a *Adapter) { a.observer = observer }
}

func NewAdapter(cfg config.QdrantConfig, logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		cfg:      cfg,
		dial:     NewDialer(cfg),
		observer: adapter.NopObserver{},
		logger:   logger.With(zap.String("service", serviceName)),
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
		a.logger.Error("Qdrant connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(session)

	version, err := session.Version(ctx)
	if err != nil {
		a.logger.Error("Qdrant connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}

	names, err := session.ListCollections(ctx)
	if err != nil {
		a.logger.Error("Error listing qdrant collections", zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	collections := make([]models.QdrantCollection, 0, len(names))
	for _, name := range names {
		vectors, points, err := session.CollectionCounts(ctx, name)
		if err != nil {
			partial := adapter.PartialError(serviceName, name, err)
			a.logger.Warn("Error fetching collection info", zap.String("collection", name), zap.Error(partial))
			a.observer.PartialDegradation(serviceName, partial)
			vectors, points = 0, 0
		}

		collections = append(collections, models.QdrantCollection{
			Name:         name,
			VectorsCount: vectors,
			PointsCount:  points,
		})
	}

	return &models.QdrantReport{
		Status:          models.StatusConnected,
		Host:            a.cfg.Host,
		Port:            a.cfg.RESTPort,
		RESTPort:        a.cfg.RESTPort,
		GRPCPort:        a.cfg.GRPCPort,
		DashboardURL:    a.cfg.DashboardURL,
		Version:         version,
		Collections:     collections,
		CollectionCount: len(collections),
	}, nil
}

func (a *Adapter) closeSession(session Session) {
	if err := session.Close(); err != nil {
		a.logger.Debug("Error closing qdrant client", zap.Error(err))
	}
}
