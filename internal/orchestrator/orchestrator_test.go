package orchestrator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/docker"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/orchestrator"
	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeDocker struct {
	closed bool
}

func (d *fakeDocker) Ping(ctx context.Context) error { return nil }

func (d *fakeDocker) ListContainers(ctx context.Context) ([]types.Container, error) {
	return nil, nil
}

func (d *fakeDocker) HealthStatus(ctx context.Context, id string) (string, error) { return "", nil }

func (d *fakeDocker) ImageTags(ctx context.Context, imageID string) ([]string, error) {
	return nil, nil
}

func (d *fakeDocker) Host() string { return "unix:///var/run/docker.sock" }

func (d *fakeDocker) Close() error {
	d.closed = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "0")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

func TestStart_RegistersEveryService(t *testing.T) {
	fake := &fakeDocker{}
	connect := func(ctx context.Context) (docker.Session, error) { return fake, nil }

	o := orchestrator.NewOrchestrator(testConfig(t), zaptest.NewLogger(t),
		orchestrator.WithDockerConnector(connect))
	require.NoError(t, o.Start(context.Background()))

	assert.Equal(t,
		[]string{"redis", "postgres", "minio", "qdrant", "mongodb", "docker"},
		o.Registry().Names())

	var names []string
	for _, d := range o.Registry().Deleters() {
		names = append(names, d.Name()+"/"+d.Collection())
	}
	assert.Equal(t, []string{"postgres/databases", "minio/buckets", "mongodb/databases"}, names)

	assert.True(t, o.Containers().Available())

	require.NoError(t, o.Stop())
	assert.True(t, fake.closed)
}

func TestStart_DockerUnavailable(t *testing.T) {
	connect := func(ctx context.Context) (docker.Session, error) {
		return nil, errors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock")
	}

	o := orchestrator.NewOrchestrator(testConfig(t), zaptest.NewLogger(t),
		orchestrator.WithDockerConnector(connect))
	require.NoError(t, o.Start(context.Background()))

	assert.False(t, o.Containers().Available())
	assert.Contains(t, o.Registry().Names(), "docker")
	assert.NoError(t, o.Stop())
}

func TestRun_StopsOnCancel(t *testing.T) {
	connect := func(ctx context.Context) (docker.Session, error) { return nil, errors.New("no daemon") }

	o := orchestrator.NewOrchestrator(testConfig(t), zaptest.NewLogger(t),
		orchestrator.WithDockerConnector(connect))
	require.NoError(t, o.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
