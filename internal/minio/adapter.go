package minio

import (
	"context"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/minio/minio-go/v7/pkg/s3utils"
	"go.uber.org/zap"
)

const serviceName = "minio"

// Adapter reports on and deletes MinIO buckets.
type Adapter struct {
	cfg      config.MinioConfig
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

func NewAdapter(cfg config.MinioConfig, logger *zap.Logger, opts ...Option) *Adapter {
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
func (a *Adapter) Collection() string { return "buckets" }

func (a *Adapter) FetchReport(ctx context.Context) (any, error) {
	// Validated at startup, so a parse failure here only leaves host/port empty
	ep, _ := ParseEndpoint(a.cfg.Endpoint)

	session, err := a.dial(ctx)
	if err != nil {
		a.logger.Error("MinIO connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(session)

	// The first round trip is where an unreachable server or bad credentials show up
	buckets, err := session.ListBuckets(ctx)
	if err != nil {
		a.logger.Error("MinIO connection error", zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}

	return &models.MinioReport{
		Status:      models.StatusConnected,
		Host:        ep.Host,
		Port:        ep.Port,
		Endpoint:    a.cfg.Endpoint,
		ConsoleURL:  a.cfg.ConsoleURL,
		Buckets:     buckets,
		BucketCount: len(buckets),
	}, nil
}

// DeleteTarget empties a bucket and removes it. Emptying is best effort:
// failures are logged and the bucket removal is attempted anyway.
func (a *Adapter) DeleteTarget(ctx context.Context, name string) (*models.OperationResult, error) {
	if a.cfg.ProtectedBuckets.Contains(name) {
		a.logger.Warn("Refusing to drop protected bucket", zap.String("bucket", name))
		return nil, adapter.ProtectedError(serviceName, "Bucket", name)
	}

	// A name S3 rejects outright can never exist
	if err := s3utils.CheckValidBucketName(name); err != nil {
		a.logger.Debug("Invalid bucket name", zap.String("bucket", name), zap.Error(err))
		return nil, adapter.NotFoundError(serviceName, "Bucket", name)
	}

	session, err := a.dial(ctx)
	if err != nil {
		a.logger.Error("Error dropping bucket", zap.String("bucket", name), zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}
	defer a.closeSession(session)

	exists, err := session.BucketExists(ctx, name)
	if err != nil {
		a.logger.Error("Error dropping bucket", zap.String("bucket", name), zap.Error(err))
		return nil, adapter.ConnectionError(serviceName, err)
	}

	if !exists {
		return nil, adapter.NotFoundError(serviceName, "Bucket", name)
	}

	a.emptyBucket(ctx, session, name)

	if err := session.RemoveBucket(ctx, name); err != nil {
		a.logger.Error("Error dropping bucket", zap.String("bucket", name), zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	a.logger.Info("Successfully dropped bucket", zap.String("bucket", name))
	return adapter.Dropped("Bucket", name), nil
}

func (a *Adapter) emptyBucket(ctx context.Context, session Session, bucket string) {
	keys, err := session.ListObjectKeys(ctx, bucket)
	if err != nil {
		partial := adapter.PartialError(serviceName, bucket, err)
		a.logger.Warn("Error listing objects in bucket", zap.String("bucket", bucket), zap.Error(partial))
		a.observer.PartialDegradation(serviceName, partial)
	}

	if len(keys) == 0 {
		return
	}

	if err := session.RemoveObjects(ctx, bucket, keys); err != nil {
		partial := adapter.PartialError(serviceName, bucket, err)
		a.logger.Warn("Error deleting objects from bucket", zap.String("bucket", bucket), zap.Error(partial))
		a.observer.PartialDegradation(serviceName, partial)
		return
	}

	a.logger.Debug("Emptied bucket", zap.String("bucket", bucket), zap.Int("objects", len(keys)))
}

func (a *Adapter) closeSession(session Session) {
	if err := session.Close(); err != nil {
		a.logger.Debug("Error closing minio client", zap.Error(err))
	}
}
