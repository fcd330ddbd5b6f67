package mongodb

import (
	"context"
	"slices"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"go.uber.org/zap"
)

const serviceName = "mongodb"

// Adapter reports on and drops MongoDB databases.
// Protected databases are hidden from reports as well as guarded from deletion.
type Adapter struct {
	cfg      config.MongoDBConfig
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

func NewAdapter(cfg config.MongoDBConfig, logger *zap.Logger, opts ...Option) *Adapter {
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

func (a *Adapter) Name() string       { return serviceName }
func (a *Adapter) Collection() string { return "databases" }

func (a *Adapter) FetchReport(ctx context.Context) (any, error) {
	session, err := a.dial(ctx)
	if err != nil {
		a.logger.Error("MongoDB connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(ctx, session)

	if err := session.Ping(ctx); err != nil {
		a.logger.Error("MongoDB connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}

	names, err := session.ListDatabaseNames(ctx)
	if err != nil {
		a.logger.Error("Error listing mongodb databases", zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	report := &models.MongoDBReport{
		Status:    models.StatusConnected,
		Host:      a.cfg.Host,
		Port:      a.cfg.Port,
		Databases: []models.MongoDBDatabase{},
	}

	for _, name := range names {
		if a.cfg.ProtectedDBs.Contains(name) {
			continue
		}

		collections, err := session.ListCollectionNames(ctx, name)
		if err != nil {
			partial := adapter.PartialError(serviceName, name, err)
			a.logger.Warn("Error fetching collections for database", zap.String("database", name), zap.Error(partial))
			a.observer.PartialDegradation(serviceName, partial)
			collections = []string{}
		}

		report.Databases = append(report.Databases, models.MongoDBDatabase{
			Name:            name,
			Collections:     collections,
			CollectionCount: len(collections),
		})
	}

	report.DatabaseCount = len(report.Databases)
	return report, nil
}

func (a *Adapter) DeleteTarget(ctx context.Context, name string) (*models.OperationResult, error) {
	if a.cfg.ProtectedDBs.Contains(name) {
		a.logger.Warn("Refusing to drop protected database", zap.String("database", name))
		return nil, adapter.ProtectedError(serviceName, "Database", name)
	}

	session, err := a.dial(ctx)
	if err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(ctx, session)

	names, err := session.ListDatabaseNames(ctx)
	if err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}

	if !slices.Contains(names, name) {
		return nil, adapter.NotFoundError(serviceName, "Database", name)
	}

	if err := session.DropDatabase(ctx, name); err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	a.logger.Info("Successfully dropped database", zap.String("database", name))
	return adapter.Dropped("Database", name), nil
}

func (a *Adapter) closeSession(ctx context.Context, session Session) {
	// The request may already be cancelled; disconnect must still run
	if err := session.Close(context.WithoutCancel(ctx)); err != nil {
		a.logger.Debug("Error closing mongodb client", zap.Error(err))
	}
}
