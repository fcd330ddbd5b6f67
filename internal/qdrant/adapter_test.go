package qdrant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counts struct {
	vectors, points uint64
}

type fakeSession struct {
	version    string
	versionErr error
	names      []string
	counts     map[string]counts
	failing    map[string]bool
	closed     bool
}

func (s *fakeSession) Version(ctx context.Context) (string, error) {
	return s.version, s.versionErr
}

func (s *fakeSession) ListCollections(ctx context.Context) ([]string, error) {
	return s.names, nil
}

func (s *fakeSession) CollectionCounts(ctx context.Context, name string) (uint64, uint64, error) {
	if s.failing[name] {
		return 7, 7, errors.New("collection is being optimized")
	}
	c := s.counts[name]
	return c.vectors, c.points, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type countingObserver struct {
	count int
}

func (o *countingObserver) PartialDegradation(service string, err error) {
	o.count++
}

func testConfig() config.QdrantConfig {
	return config.QdrantConfig{
		Host:         "127.0.0.1",
		RESTPort:     6333,
		GRPCPort:     6334,
		DashboardURL: "http://127.0.0.1:6333/dashboard",
	}
}

func TestFetchReport_Collections(t *testing.T) {
	session := &fakeSession{
		version: "1.15.1",
		names:   []string{"documents", "images"},
		counts: map[string]counts{
			"documents": {vectors: 120, points: 128},
			"images":    {vectors: 0, points: 3},
		},
	}
	dial := func(ctx context.Context) (qdrant.Session, error) { return session, nil }

	a := qdrant.NewAdapter(testConfig(), zaptest.NewLogger(t), qdrant.WithDialer(dial))
	result, err := a.FetchReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &models.QdrantReport{
		Status:       models.StatusConnected,
		Host:         "127.0.0.1",
		Port:         6333,
		RESTPort:     6333,
		GRPCPort:     6334,
		DashboardURL: "http://127.0.0.1:6333/dashboard",
		Version:      "1.15.1",
		Collections: []models.QdrantCollection{
			{Name: "documents", VectorsCount: 120, PointsCount: 128},
			{Name: "images", VectorsCount: 0, PointsCount: 3},
		},
		CollectionCount: 2,
	}, result)
	assert.True(t, session.closed)
}

func TestFetchReport_FailingCollectionHasZeroCounts(t *testing.T) {
	session := &fakeSession{
		names:   []string{"documents", "broken"},
		counts:  map[string]counts{"documents": {vectors: 5, points: 5}},
		failing: map[string]bool{"broken": true},
	}
	dial := func(ctx context.Context) (qdrant.Session, error) { return session, nil }
	observer := &countingObserver{}

	a := qdrant.NewAdapter(testConfig(), zaptest.NewLogger(t),
		qdrant.WithDialer(dial), qdrant.WithObserver(observer))
	result, err := a.FetchReport(context.Background())
	require.NoError(t, err)

	report := result.(*models.QdrantReport)
	require.Len(t, report.Collections, 2)
	assert.Equal(t, models.QdrantCollection{Name: "broken"}, report.Collections[1])
	assert.Equal(t, 2, report.CollectionCount)
	assert.Equal(t, 1, observer.count)
}

func TestFetchReport_Unreachable(t *testing.T) {
	session := &fakeSession{versionErr: errors.New("rpc error: code = Unavailable desc = connection refused")}
	dial := func(ctx context.Context) (qdrant.Session, error) { return session, nil }

	a := qdrant.NewAdapter(testConfig(), zaptest.NewLogger(t), qdrant.WithDialer(dial))
	_, err := a.FetchReport(context.Background())

	assert.ErrorIs(t, err, adapter.ErrConnection)
	assert.Contains(t, err.Error(), "Unavailable")
	assert.True(t, session.closed)
}

func TestAdapter_IsNotADeleter(t *testing.T) {
	var rep adapter.Reporter = qdrant.NewAdapter(testConfig(), zaptest.NewLogger(t))

	_, ok := rep.(adapter.Deleter)
	assert.False(t, ok)
}
