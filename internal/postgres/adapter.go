package postgres

import (
	"context"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"go.uber.org/zap"
)

const serviceName = "postgres"

// Adapter reports on and drops PostgreSQL databases.
// It keeps no connection between calls.
type Adapter struct {
	cfg      config.PostgresConfig
	dial     Dialer
	observer adapter.Observer
	logger   *zap.Logger
}

type Option func(*Adapter)

// WithDialer replaces the pgx dialer, mainly for tests.
func WithDialer(dial Dialer) Option {
	return func(a *Adapter) { a.dial = dial }
}

func WithObserver(observer adapter.Observer) Option {
	return func(a *Adapter) { a.observer = observer }
}

func NewAdapter(cfg config.PostgresConfig, logger *zap.Logger, opts ...Option) *Adapter {
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

// FetchReport lists every non-template database with its size and public tables.
// A database whose tables cannot be listed is still reported, with no tables.
func (a *Adapter) FetchReport(ctx context.Context) (any, error) {
	databases, sizes, connections, err := a.overview(ctx)
	if err != nil {
		a.logger.Error("Postgres connection error", zap.Error(err))
		return nil, err
	}

	report := &models.PostgresReport{
		Status:      models.StatusConnected,
		Host:        a.cfg.Host,
		Port:        a.cfg.Port,
		Databases:   make([]models.PostgresDatabase, 0, len(databases)),
		Connections: connections,
	}

	for _, name := range databases {
		tables, err := a.listTables(ctx, name)
		if err != nil {
			partial := adapter.PartialError(serviceName, name, err)
			a.logger.Warn("Error fetching tables for database", zap.String("database", name), zap.Error(partial))
			a.observer.PartialDegradation(serviceName, partial)
			tables = []string{}
		}

		report.Databases = append(report.Databases, models.PostgresDatabase{
			Name:       name,
			Size:       sizes[name],
			Tables:     tables,
			TableCount: len(tables),
		})
	}
	report.DatabaseCount = len(report.Databases)

	return report, nil
}

// overview runs the catalog queries on the default database.
func (a *Adapter) overview(ctx context.Context) ([]string, map[string]string, int64, error) {
	session, err := a.dial(ctx, a.cfg.DefaultDB)
	if err != nil {
		return nil, nil, 0, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(ctx, session)

	databases, err := session.ListDatabases(ctx)
	if err != nil {
		return nil, nil, 0, adapter.BackendError(serviceName, err)
	}

	connections, err := session.ConnectionCount(ctx)
	if err != nil {
		return nil, nil, 0, adapter.BackendError(serviceName, err)
	}

	sizes, err := session.DatabaseSizes(ctx)
	if err != nil {
		return nil, nil, 0, adapter.BackendError(serviceName, err)
	}

	return databases, sizes, connections, nil
}

func (a *Adapter) listTables(ctx context.Context, database string) ([]string, error) {
	session, err := a.dial(ctx, database)
	if err != nil {
		return nil, err
	}
	defer a.closeSession(ctx, session)

	return session.ListTables(ctx)
}

// DeleteTarget drops a database. Protected names are refused before any
// connection is opened; other backends on the target are terminated first.
func (a *Adapter) DeleteTarget(ctx context.Context, name string) (*models.OperationResult, error) {
	if a.cfg.ProtectedDBs.Contains(name) {
		a.logger.Warn("Refusing to drop protected database", zap.String("database", name))
		return nil, adapter.ProtectedError(serviceName, "Database", name)
	}

	// Connect to the default database; the target cannot be dropped from inside itself
	session, err := a.dial(ctx, a.cfg.DefaultDB)
	if err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(ctx, session)

	exists, err := session.DatabaseExists(ctx, name)
	if err != nil {
		return nil, adapter.BackendError(serviceName, err)
	}

	if !exists {
		return nil, adapter.NotFoundError(serviceName, "Database", name)
	}

	terminated, err := session.TerminateConnections(ctx, name)
	if err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	if err := session.DropDatabase(ctx, name); err != nil {
		a.logger.Error("Error dropping database", zap.String("database", name), zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	a.logger.Info("Successfully dropped database",
		zap.String("database", name),
		zap.Int64("terminated_connections", terminated))

	return adapter.Dropped("Database", name), nil
}

func (a *Adapter) closeSession(ctx context.Context, session Session) {
	if err := session.Close(ctx); err != nil {
		a.logger.Debug("Error closing postgres connection", zap.Error(err))
	}
}
