package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dai/internal/services"
)

type testService struct {
	*services.BaseService
}

func newContainer(t *testing.T, connectErr error) *services.Container {
	t.Helper()

	log, err := services.NewLocalService("log", nil, nil)
	require.NoError(t, err)
	web3, err := services.NewPublicService("web3", []string{"log"}, nil,
		func(context.Context, func()) error { return connectErr })
	require.NoError(t, err)

	c := services.NewContainer()
	require.NoError(t, c.Register(&testService{BaseService: log}))
	require.NoError(t, c.Register(&testService{BaseService: web3}))
	require.NoError(t, c.InjectDependencies())
	return c
}

func TestCollector_RecordsTransitions(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	c := newContainer(t, nil)
	require.NoError(t, collector.Attach(c))

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.state.WithLabelValues("web3", "CREATED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.state.WithLabelValues("web3", "READY")))

	require.NoError(t, c.Connect(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.transitions.WithLabelValues("web3", "OFFLINE", "CONNECTING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.transitions.WithLabelValues("log", "INITIALIZING", "READY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.state.WithLabelValues("web3", "READY")))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.state.WithLabelValues("web3", "CREATED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.serviceInfo.WithLabelValues("web3", "PUBLIC")))
}

func TestCollector_RecordsFailures(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	c := newContainer(t, errors.New("refused"))
	require.NoError(t, collector.Attach(c))

	assert.Error(t, c.Connect(context.Background()))
	assert.Error(t, c.Connect(context.Background()))

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.failures.WithLabelValues("web3", "connect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.state.WithLabelValues("web3", "OFFLINE")))
}

func TestCollector_Handler(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)
	require.NoError(t, collector.Attach(newContainer(t, nil)))

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dai_service_state{service="log",state="CREATED"} 1`)
	assert.Contains(t, string(body), `dai_service_info{service="web3",type="PUBLIC"} 1`)
}
