package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	httpserver "github.com/EricMurray-e-m-dev/infra-manager/internal/http"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/metrics"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockReporter struct {
	name   string
	report any
	err    error
}

func (m *mockReporter) Name() string { return m.name }

func (m *mockReporter) FetchReport(ctx context.Context) (any, error) {
	return m.report, m.err
}

type mockDeleter struct {
	mockReporter
	protected map[string]bool
	existing  map[string]bool
	requested []string
}

func (m *mockDeleter) Collection() string { return "databases" }

func (m *mockDeleter) DeleteTarget(ctx context.Context, name string) (*models.OperationResult, error) {
	m.requested = append(m.requested, name)
	if m.protected[name] {
		return nil, adapter.ProtectedError(m.name, "Database", name)
	}
	if !m.existing[name] {
		return nil, adapter.NotFoundError(m.name, "Database", name)
	}
	delete(m.existing, name)
	return adapter.Dropped("Database", name), nil
}

type mockContainers struct {
	available  bool
	containers []models.ContainerSummary
}

func (m *mockContainers) Available() bool { return m.available }

func (m *mockContainers) ListContainers(ctx context.Context) ([]models.ContainerSummary, error) {
	return m.containers, nil
}

type fixture struct {
	handler  http.Handler
	postgres *mockDeleter
}

func newFixture(t *testing.T, containers httpserver.ContainerLister) *fixture {
	t.Helper()

	postgres := &mockDeleter{
		mockReporter: mockReporter{
			name:   "postgres",
			report: &models.PostgresReport{Status: models.StatusConnected, Host: "127.0.0.1", Port: 54321},
		},
		protected: map[string]bool{"postgres": true, "template0": true, "template1": true},
		existing:  map[string]bool{"analytics": true},
	}
	redis := &mockReporter{
		name: "redis",
		err:  adapter.ConnectionError("redis", errors.New("dial tcp 127.0.0.1:63791: connect: connection refused")),
	}

	registry, err := adapter.NewRegistry(redis, postgres)
	require.NoError(t, err)

	server := httpserver.NewServer(registry, containers, metrics.New(), zaptest.NewLogger(t))
	return &fixture{handler: server.Handler(), postgres: postgres}
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReport_Connected(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/services/postgres")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "connected", body["status"])
	assert.Equal(t, float64(54321), body["port"])
}

func TestReport_UnreachableIsStill200(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/services/redis")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "connection_error", body["error_kind"])
	assert.Contains(t, body["message"], "connection refused")
}

func TestDelete_Success(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodDelete, "/services/postgres/databases/analytics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"status":  "success",
		"message": "Database analytics dropped successfully",
	}, decode(t, rec))
}

func TestDelete_ProtectedAndNotFound(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		kind    string
		message string
	}{
		{"protected", "template1", "protected_resource", "Cannot drop protected database: template1"},
		{"missing", "nope", "not_found", "Database nope not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			rec := f.do(http.MethodDelete, "/services/postgres/databases/"+tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{
				"status":     "error",
				"error_kind": tt.kind,
				"message":    tt.message,
			}, decode(t, rec))
		})
	}
}

func TestDelete_NamePassedLiterally(t *testing.T) {
	f := newFixture(t, nil)

	f.do(http.MethodDelete, "/services/postgres/databases/Analytics%20DB")

	assert.Equal(t, []string{"Analytics DB"}, f.postgres.requested)
}

func TestDelete_OnlyRegisteredForDeleters(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodDelete, "/services/redis/databases/0")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListContainers_Unavailable(t *testing.T) {
	for name, containers := range map[string]httpserver.ContainerLister{
		"nil lister": nil,
		"no daemon":  &mockContainers{available: false},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, containers)

			rec := f.do(http.MethodGet, "/services")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{"error": "Docker client not available"}, decode(t, rec))
		})
	}
}

func TestListContainers(t *testing.T) {
	f := newFixture(t, &mockContainers{
		available: true,
		containers: []models.ContainerSummary{
			{ID: "0123456789ab", Name: "infra-postgres", Image: "postgres:16", Status: "running", Health: "healthy"},
		},
	})

	rec := f.do(http.MethodGet, "/services")

	assert.Equal(t, http.StatusOK, rec.Code)
	var containers []models.ContainerSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &containers))
	require.Len(t, containers, 1)
	assert.Equal(t, "infra-postgres", containers[0].Name)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/services/cassandra")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodOptions, "/services/postgres/databases/analytics")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Empty(t, f.postgres.requested)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.do(http.MethodGet, "/services/redis")

	rec := f.do(http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `service="redis",status="connection_error"`)
}
