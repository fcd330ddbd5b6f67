package docker

import (
	"context"
	"errors"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"go.uber.org/zap"
)

const serviceName = "docker"

// ErrUnavailable is returned when no Docker client could be set up at startup.
var ErrUnavailable = errors.New("Docker client not available")

// Adapter lists the containers whose name carries the configured prefix.
// Unlike the other adapters it holds one long-lived client, probed once at startup.
type Adapter struct {
	session  Session
	prefix   string
	observer adapter.Observer
	logger   *zap.Logger
}

type Option func(*Adapter)

func WithObserver(observer adapter.Observer) Option {
	return func(a *Adapter) { a.observer = observer }
}

// NewAdapter accepts a nil session, in which case every call reports ErrUnavailable.
func NewAdapter(session Session, prefix string, logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		session:  session,
		prefix:   prefix,
		observer: adapter.NopObserver{},
		logger:   logger.With(zap.String("service", serviceName)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return serviceName }

func (a *Adapter) Available() bool {
	return a.session != nil
}

func (a *Adapter) ListContainers(ctx context.Context) ([]models.ContainerSummary, error) {
	if !a.Available() {
		return nil, adapter.ConnectionError(serviceName, ErrUnavailable)
	}

	containers, err := a.session.ListContainers(ctx)
	if err != nil {
		a.logger.Error("Error listing containers", zap.Error(err))
		return nil, adapter.BackendError(serviceName, err)
	}

	summaries := []models.ContainerSummary{}
	for _, c := range containers {
		name, ok := PrefixedName(c.Names, a.prefix)
		if !ok {
			continue
		}

		health, err := a.session.HealthStatus(ctx, c.ID)
		if err != nil {
			partial := adapter.PartialError(serviceName, name, err)
			a.logger.Warn("Error inspecting container", zap.String("container", name), zap.Error(partial))
			a.observer.PartialDegradation(serviceName, partial)
			health = ""
		}

		tags, err := a.session.ImageTags(ctx, c.ImageID)
		if err != nil {
			partial := adapter.PartialError(serviceName, name, err)
			a.logger.Warn("Error inspecting container image", zap.String("container", name), zap.Error(partial))
			a.observer.PartialDegradation(serviceName, partial)
			tags = nil
		}

		summaries = append(summaries, Summarize(c, name, health, tags))
	}

	return summaries, nil
}

func (a *Adapter) FetchReport(ctx context.Context) (any, error) {
	containers, err := a.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DockerReport{
		Status:         models.StatusConnected,
		Host:           a.session.Host(),
		Prefix:         a.prefix,
		Containers:     containers,
		ContainerCount: len(containers),
	}, nil
}
