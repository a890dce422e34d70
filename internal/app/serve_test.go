package app

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dai/internal/config"
)

func TestRun_MetricsEndpoint(t *testing.T) {
	daiCfg := testConfig()
	application := newTestApplication(t, &Config{DaiConfig: &daiCfg, MetricsAddress: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, func() bool { return application.MetricsAddr() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + application.MetricsAddr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `dai_service_state{service="timer",state="READY"} 1`)
	assert.Contains(t, string(body), "dai_service_transitions_total")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	daiCfg := testConfig()
	require.NoError(t, config.SaveConfig(dir, daiCfg))

	cfg := NewConfig(false, dir)
	cfg.Watch = true
	application := newTestApplication(t, cfg)
	firstID := application.Maker().ID()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = application.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	daiCfg.AutoAuthenticate = false
	require.NoError(t, config.SaveConfig(dir, daiCfg))

	assert.Eventually(t, func() bool { return application.Maker().ID() != firstID }, 5*time.Second, 20*time.Millisecond)
}
