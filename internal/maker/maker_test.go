package maker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dai/internal/builtin"
	"dai/internal/config"
	"dai/internal/events"
	"dai/internal/provider"
	"dai/internal/services"
)

const aliceAddress = "0x16fb96a5fa0427af0c8f7cf1eb4870231c8154b6"

// newNode starts a JSON-RPC endpoint good enough for the web3 service.
func newNode(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		results := map[string]string{
			"net_version":     "42",
			"eth_chainId":     "0x2a",
			"eth_blockNumber": "0x100",
		}
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": results[req.Method]}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func create(t *testing.T, preset string, opts Options) *Maker {
	t.Helper()
	m, err := Create(context.Background(), preset, opts)
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

func TestCreate_TestPreset(t *testing.T) {
	m := create(t, config.PresetTest, Options{})

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, config.PresetTest, m.Preset())
	assert.Equal(t, []string{"accounts", "event", "log", "timer"}, m.Container().ServiceNames())
	assert.NotNil(t, m.Events())

	status, err := m.Status()
	require.NoError(t, err)
	require.Len(t, status, 4)
	assert.Equal(t, "log", status[0].Name)
	for _, s := range status {
		assert.Equal(t, string(services.StateCreated), s.State, s.Name)
		assert.False(t, s.Ready)
	}

	require.NoError(t, m.Authenticate(context.Background()))
	status, err = m.Status()
	require.NoError(t, err)
	for _, s := range status {
		assert.True(t, s.Ready, s.Name)
	}
}

func TestCreate_HTTPPreset(t *testing.T) {
	node := newNode(t)
	m := create(t, config.PresetHTTP, Options{
		URL:              node.URL,
		Accounts:         []builtin.Account{{Name: "alice", Address: aliceAddress}},
		AutoAuthenticate: true,
	})

	web3, err := ServiceAs[*builtin.Web3Service](m, builtin.Web3Role)
	require.NoError(t, err)
	assert.Equal(t, services.StateReady, web3.GetState())
	assert.Equal(t, node.URL, web3.URL())
	assert.Equal(t, uint64(42), web3.ChainID())
	assert.Equal(t, aliceAddress, web3.CurrentAddress())
	assert.True(t, m.Container().IsAuthenticated())

	ev, err := ServiceAs[*builtin.EventService](m, builtin.EventRole)
	require.NoError(t, err)
	var web3Ready bool
	for _, e := range ev.Events() {
		if e.Topic == events.LifecycleTopic(events.ReasonServiceReady) && e.Service == builtin.Web3Role {
			web3Ready = true
		}
	}
	assert.True(t, web3Ready, "expected a ready event for web3")

	m.Shutdown()
	timers, err := ServiceAs[*builtin.TimerService](m, builtin.TimerRole)
	require.NoError(t, err)
	assert.Empty(t, timers.TimerNames())
	m.Shutdown()
}

func TestCreate_ServiceOverrides(t *testing.T) {
	m := create(t, config.PresetTest, Options{
		Services: map[string]interface{}{
			"log":   false,
			"event": map[string]interface{}{"historySize": 5},
			"web3":  map[string]interface{}{"url": "http://node.invalid"},
		},
		URL: "http://ignored.invalid",
	})

	log, err := ServiceAs[*builtin.LogService](m, builtin.LogRole)
	require.NoError(t, err)
	assert.True(t, log.IsNull())

	web3, err := m.Service(builtin.Web3Role)
	require.NoError(t, err)
	assert.Equal(t, "http://node.invalid", web3.Manager().Settings()["url"])
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		opts   Options
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown preset",
			preset: "kovan",
			check: func(t *testing.T, err error) {
				var target *UnknownPresetError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name:   "unknown implementation",
			preset: config.PresetTest,
			opts:   Options{Services: map[string]interface{}{"timer": "FancyTimer"}},
			check: func(t *testing.T, err error) {
				assert.True(t, provider.IsUnknownService(err), "got %v", err)
			},
		},
		{
			name:   "invalid shorthand",
			preset: config.PresetTest,
			opts:   Options{Services: map[string]interface{}{"timer": 12}},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "timer")
			},
		},
		{
			name:   "web3 without url",
			preset: config.PresetHTTP,
			opts:   Options{AutoAuthenticate: true},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "url")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(context.Background(), tt.preset, tt.opts)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMaker_ExtractedServices(t *testing.T) {
	m := create(t, config.PresetTest, Options{ExtractedServices: config.DefaultExtractedServices})

	_, err := m.Service("exchange")
	var extracted *services.ExtractedServiceError
	require.ErrorAs(t, err, &extracted)
	assert.Equal(t, "dai-plugin-exchange", extracted.Plugin)

	_, err = m.Service("nope")
	assert.True(t, services.IsServiceNotFound(err))
}

func TestServiceAs_WrongType(t *testing.T) {
	m := create(t, config.PresetTest, Options{})

	_, err := ServiceAs[*builtin.TimerService](m, builtin.LogRole)
	assert.Error(t, err)

	_, err = ServiceAs[*builtin.TimerService](m, "missing")
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	p := &recordingPlugin{name: "from-config"}
	RegisterPlugin(p)
	t.Cleanup(func() { UnregisterPlugin(p.name) })

	cfg := config.DefaultConfig()
	cfg.URL = "http://localhost:9999"
	cfg.Accounts = []config.AccountConfig{{Name: "alice", Address: aliceAddress}}
	cfg.Plugins = []string{"from-config"}
	cfg.Services = map[string]interface{}{"timer": true}
	cfg.ExtractedServices = map[string]string{"oracle": "dai-plugin-oracle"}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", opts.URL)
	assert.Equal(t, []builtin.Account{{Name: "alice", Address: aliceAddress}}, opts.Accounts)
	assert.Equal(t, []Plugin{p}, opts.Plugins)
	assert.True(t, opts.AutoAuthenticate)
	assert.Equal(t, "dai-plugin-oracle", opts.ExtractedServices["oracle"])
	assert.Equal(t, "dai-plugin-exchange", opts.ExtractedServices["exchange"])

	cfg.Plugins = []string{"missing"}
	_, err = OptionsFromConfig(cfg)
	var notFound *PluginNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
