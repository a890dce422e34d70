package builtin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"dai/internal/events"
	"dai/internal/provider"
	"dai/internal/services"
)

const (
	aliceAddress = "0x16fb96a5fa0427af0c8f7cf1eb4870231c8154b6"
	bobAddress   = "0x81431b69b1e0e334d4161a13c2955e0f3599381e"
)

// build creates a container with the built-in resolver and injects it.
func build(t *testing.T, configs map[string]provider.ServiceConfig) *services.Container {
	t.Helper()
	c, err := provider.New(configs, Resolver()).BuildContainer()
	require.NoError(t, err)
	return c
}

// initialized builds a container and initializes it.
func initialized(t *testing.T, configs map[string]provider.ServiceConfig) *services.Container {
	t.Helper()
	c := build(t, configs)
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

func get[S services.Service](t *testing.T, c *services.Container, role string) S {
	t.Helper()
	svc, err := c.Service(role)
	require.NoError(t, err)
	typed, ok := svc.(S)
	require.True(t, ok, "service %s has type %T", role, svc)
	return typed
}

// collector records events delivered on a bus subscription.
type collector struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *collector) handle(e events.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *collector) list() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

// fakeNode is a JSON-RPC endpoint answering the calls the web3 service makes.
type fakeNode struct {
	*httptest.Server

	block   atomic.Uint64
	failing atomic.Bool
	calls   atomic.Int64
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	n := &fakeNode{}
	n.block.Store(0x10)
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.calls.Add(1)
		if n.failing.Load() {
			http.Error(w, "node down", http.StatusBadRequest)
			return
		}

		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "net_version":
			resp["result"] = "1337"
		case "eth_chainId":
			resp["result"] = "0x539"
		case "eth_blockNumber":
			resp["result"] = "0x" + strconv.FormatUint(n.block.Load(), 16)
		case "eth_accounts":
			resp["result"] = []string{aliceAddress}
		default:
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(n.Close)
	return n
}
