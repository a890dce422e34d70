package builtin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"dai/internal/events"
	"dai/internal/jsonrpc"
	"dai/internal/services"
)

// Role and implementation name of the web3 service.
const (
	Web3Role = "web3"
	Web3Name = "HttpWeb3"

	// TopicWeb3Block is emitted when the node reports a new block number.
	TopicWeb3Block = "web3/BLOCK"
	// TopicWeb3Disconnected is emitted when polling the node fails.
	TopicWeb3Disconnected = "web3/DISCONNECTED"
	// TopicWeb3Deauthenticated is emitted when the current account goes away.
	TopicWeb3Deauthenticated = "web3/DEAUTHENTICATED"

	pollTimerName = "web3-poll"

	defaultPollInterval = 5 * time.Second
	defaultTimeout      = 10 * time.Second
)

// ErrNoAccount is returned by authentication when no account is selected.
var ErrNoAccount = errors.New("no current account")

// Web3Service connects to an Ethereum node over JSON-RPC. Connecting checks
// the node's network and chain ids and starts polling the block number;
// authenticating binds the service to the current account.
type Web3Service struct {
	*services.BaseService

	mu           sync.RWMutex
	url          string
	pollInterval time.Duration
	timeout      time.Duration
	client       *jsonrpc.Client
	networkID    string
	chainID      uint64
	blockNumber  uint64
	address      string
	unsubscribe  func()

	// generation identifies the current connection. Polls started by an
	// earlier connection compare it and back off.
	generation uint64
}

// NewWeb3Service creates the web3 service.
func NewWeb3Service() (*Web3Service, error) {
	s := &Web3Service{}
	base, err := services.NewPrivateService(Web3Role,
		[]string{LogRole, TimerRole, EventRole, AccountsRole},
		s.initialize, s.connect, s.authenticate)
	if err != nil {
		return nil, err
	}
	s.BaseService = base
	base.Manager().OnDisconnected(s.stopPolling)
	return s, nil
}

func (s *Web3Service) initialize(_ context.Context, settings services.Settings) error {
	url, err := settingString(settings, "url", "")
	if err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("web3 requires a url setting")
	}
	poll, err := settingDuration(settings, "pollInterval", defaultPollInterval)
	if err != nil {
		return err
	}
	timeout, err := settingDuration(settings, "timeout", defaultTimeout)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.url = url
	s.pollInterval = poll
	s.timeout = timeout
	s.client = jsonrpc.New(url, jsonrpc.WithTimeout(timeout))
	s.mu.Unlock()

	s.log().Debug("Web3 configured for %s (poll every %s)", url, poll)
	return nil
}

func (s *Web3Service) connect(ctx context.Context, disconnect func()) error {
	client := s.rpc()

	var networkID string
	if err := client.Call(ctx, "net_version", nil, &networkID); err != nil {
		return fmt.Errorf("failed to read network id: %w", err)
	}

	var chainHex string
	if err := client.Call(ctx, "eth_chainId", nil, &chainHex); err != nil {
		return fmt.Errorf("failed to read chain id: %w", err)
	}
	chainID, err := parseQuantity(chainHex)
	if err != nil {
		return fmt.Errorf("invalid chain id: %w", err)
	}

	block, err := s.fetchBlockNumber(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.networkID = networkID
	s.chainID = chainID
	s.blockNumber = block
	interval := s.pollInterval
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if err := s.timer().CreateTimer(pollTimerName, interval, true, func() { s.poll(gen, disconnect) }); err != nil {
		return err
	}

	s.log().Info("Connected to %s (network %s, chain %d, block %d)", client.URL(), networkID, chainID, block)
	return nil
}

// poll refreshes the block number for connection gen. A failed poll drops the
// connection so the next Connect starts over. Polls left over from an earlier
// connection do nothing.
func (s *Web3Service) poll(gen uint64, disconnect func()) {
	s.mu.RLock()
	timeout := s.timeout
	current := s.generation == gen
	s.mu.RUnlock()
	if !current {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	block, err := s.fetchBlockNumber(ctx)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		// Claim the failure so later polls of this connection stay quiet.
		s.generation++
		s.mu.Unlock()

		s.stopPolling()
		s.log().Warn("Lost connection to web3 node: %v", err)
		s.event().Emit(TopicWeb3Disconnected, err.Error())
		disconnect()
		return
	}
	changed := block != s.blockNumber
	s.blockNumber = block
	s.mu.Unlock()

	if changed {
		s.event().Emit(TopicWeb3Block, block)
	}
}

func (s *Web3Service) stopPolling() {
	s.timer().DisposeTimer(pollTimerName)
}

func (s *Web3Service) authenticate(_ context.Context, deauthenticate func()) error {
	accounts := s.accounts()
	acc, ok := accounts.CurrentAccount()
	if !ok {
		return ErrNoAccount
	}

	s.mu.Lock()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.address = acc.Address
	s.unsubscribe = s.event().On(TopicAccountsChange, func(e events.Event) {
		change, ok := e.Payload.(AccountChange)
		if !ok {
			return
		}
		if change.Present {
			s.mu.Lock()
			s.address = change.Current.Address
			s.mu.Unlock()
			return
		}
		s.dropAccount(deauthenticate)
	})
	s.mu.Unlock()

	s.log().Info("Authenticated web3 as %s (%s)", acc.Name, acc.Address)
	return nil
}

func (s *Web3Service) dropAccount(deauthenticate func()) {
	s.mu.Lock()
	s.address = ""
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.event().Emit(TopicWeb3Deauthenticated, nil)
	deauthenticate()
}

func (s *Web3Service) fetchBlockNumber(ctx context.Context) (uint64, error) {
	var blockHex string
	if err := s.rpc().Call(ctx, "eth_blockNumber", nil, &blockHex); err != nil {
		return 0, fmt.Errorf("failed to read block number: %w", err)
	}
	block, err := parseQuantity(blockHex)
	if err != nil {
		return 0, fmt.Errorf("invalid block number: %w", err)
	}
	return block, nil
}

// Call sends a raw JSON-RPC request to the node. The service must be
// connected.
func (s *Web3Service) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if connected, _ := s.Manager().IsConnected(); !connected {
		return fmt.Errorf("cannot call %s: web3 is %s", method, s.GetState())
	}
	return s.rpc().Call(ctx, method, params, result)
}

// URL returns the configured node endpoint.
func (s *Web3Service) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// NetworkID returns the id reported by net_version.
func (s *Web3Service) NetworkID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkID
}

// ChainID returns the id reported by eth_chainId.
func (s *Web3Service) ChainID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainID
}

// BlockNumber returns the latest polled block number.
func (s *Web3Service) BlockNumber() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockNumber
}

// CurrentAddress returns the address the service is authenticated as.
func (s *Web3Service) CurrentAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

func (s *Web3Service) rpc() *jsonrpc.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *Web3Service) log() *LogService           { return s.Get(LogRole).(*LogService) }
func (s *Web3Service) timer() *TimerService       { return s.Get(TimerRole).(*TimerService) }
func (s *Web3Service) event() *EventService       { return s.Get(EventRole).(*EventService) }
func (s *Web3Service) accounts() *AccountsService { return s.Get(AccountsRole).(*AccountsService) }

// parseQuantity decodes a 0x-prefixed hex quantity.
func parseQuantity(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") {
		return 0, fmt.Errorf("quantity %q is not 0x-prefixed", s)
	}
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}
