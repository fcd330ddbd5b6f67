package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSession struct {
	info    map[string]string
	infoErr error
	keys    int64
	closed  bool
}

func (s *fakeSession) Info(ctx context.Context) (map[string]string, error) {
	return s.info, s.infoErr
}

func (s *fakeSession) DBSize(ctx context.Context) (int64, error) {
	return s.keys, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func testConfig() config.RedisConfig {
	return config.RedisConfig{Host: "127.0.0.1", Port: 63791}
}

func TestFetchReport_Connected(t *testing.T) {
	session := &fakeSession{
		info: map[string]string{
			"redis_version":     "7.2.4",
			"uptime_in_days":    "3",
			"used_memory_human": "1.00M",
			"connected_clients": "4",
		},
		keys: 12,
	}
	dial := func(ctx context.Context) (redis.Session, error) { return session, nil }

	a := redis.NewAdapter(testConfig(), zaptest.NewLogger(t), redis.WithDialer(dial))
	result, err := a.FetchReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &models.RedisReport{
		Status:           models.StatusConnected,
		Host:             "127.0.0.1",
		Port:             63791,
		Version:          "7.2.4",
		UptimeDays:       3,
		UsedMemoryHuman:  "1.00M",
		ConnectedClients: 4,
		Keys:             12,
	}, result)
	assert.True(t, session.closed)
}

func TestFetchReport_Unreachable(t *testing.T) {
	dial := func(ctx context.Context) (redis.Session, error) {
		return nil, errors.New("dial tcp 127.0.0.1:63791: connect: connection refused")
	}

	a := redis.NewAdapter(testConfig(), zaptest.NewLogger(t), redis.WithDialer(dial))
	_, err := a.FetchReport(context.Background())

	assert.ErrorIs(t, err, adapter.ErrConnection)
	assert.NotEmpty(t, err.Error())
}

func TestFetchReport_InfoFailureClosesSession(t *testing.T) {
	session := &fakeSession{infoErr: errors.New("NOAUTH Authentication required")}
	dial := func(ctx context.Context) (redis.Session, error) { return session, nil }

	a := redis.NewAdapter(testConfig(), zaptest.NewLogger(t), redis.WithDialer(dial))
	_, err := a.FetchReport(context.Background())

	assert.ErrorIs(t, err, adapter.ErrBackend)
	assert.Contains(t, err.Error(), "NOAUTH")
	assert.True(t, session.closed)
}

func TestAdapter_IsNotADeleter(t *testing.T) {
	var rep adapter.Reporter = redis.NewAdapter(testConfig(), zaptest.NewLogger(t))

	_, ok := rep.(adapter.Deleter)
	assert.False(t, ok)
	assert.Equal(t, "redis", rep.Name())
}
