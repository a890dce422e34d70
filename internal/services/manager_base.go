package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"dai/internal/statemachine"
	"dai/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// ManagerBase drives the lifecycle of a single service through the state
// machine selected by its ServiceType. It knows nothing about dependencies;
// see Manager for that.
type ManagerBase struct {
	name    string
	typ     ServiceType
	state   *statemachine.StateMachine
	init    InitFunc
	connect ConnectFunc
	auth    AuthFunc

	// initSelf and connectSelf run the implicit earlier stages. Manager points
	// them at its own stages so dependencies are awaited there too.
	initSelf    func(context.Context) error
	connectSelf func(context.Context) error

	// flights collapses concurrent calls of the same stage into one attempt.
	flights singleflight.Group

	mu            sync.RWMutex
	settings      Settings
	errorHandlers []ErrorHandler
}

// NewManagerBase creates a lifecycle manager from up to three callbacks. The
// service type is derived from which callbacks are present: none or only
// init gives TypeLocal, connect gives TypePublic, connect and auth give
// TypePrivate. An auth callback without connect is rejected.
func NewManagerBase(init InitFunc, connect ConnectFunc, auth AuthFunc) (*ManagerBase, error) {
	if auth != nil && connect == nil {
		return nil, &InvalidArgumentError{Message: "a connect callback is required when an auth callback is supplied"}
	}

	typ := TypeLocal
	switch {
	case auth != nil:
		typ = TypePrivate
	case connect != nil:
		typ = TypePublic
	}

	sm, err := statemachine.New(StateCreated, typ.Lifecycle())
	if err != nil {
		return nil, fmt.Errorf("failed to build %s lifecycle: %w", typ, err)
	}

	m := &ManagerBase{
		typ:     typ,
		state:   sm,
		init:    init,
		connect: connect,
		auth:    auth,
	}
	m.initSelf = func(ctx context.Context) error { return m.Initialize(ctx, m.Settings()) }
	m.connectSelf = m.Connect
	return m, nil
}

// Type returns the service type derived at construction.
func (m *ManagerBase) Type() ServiceType {
	return m.typ
}

// State returns the current lifecycle state.
func (m *ManagerBase) State() ServiceState {
	return m.state.State()
}

// Settings returns the settings passed to init when the manager initializes
// itself implicitly.
func (m *ManagerBase) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetSettings replaces the stored settings. It has no effect on an init
// callback that already ran.
func (m *ManagerBase) SetSettings(settings Settings) {
	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()
}

// Initialize runs the init callback once. Concurrent callers share the same
// attempt and its result; calls made after a successful attempt return nil
// immediately. A failed attempt rolls the state back to CREATED, so calling
// Initialize again retries.
func (m *ManagerBase) Initialize(ctx context.Context, settings Settings) error {
	return m.share(ctx, StageInitialize, func(ctx context.Context) error {
		started, err := m.state.CompareAndTransition([]ServiceState{StateCreated}, StateInitializing)
		if err != nil {
			return err
		}
		if !started {
			return nil
		}

		err = safeCall(func() error {
			if m.init == nil {
				return nil
			}
			return m.init(ctx, settings)
		})
		if err != nil {
			m.rollback(StateInitializing, StateCreated)
			m.reportError(StageInitialize, err)
			return err
		}

		next := StateOffline
		if m.typ == TypeLocal {
			next = StateReady
		}
		_, err = m.state.CompareAndTransition([]ServiceState{StateInitializing}, next)
		return err
	})
}

// Connect initializes the service if needed and then runs the connect
// callback. Local services only initialize. A failed connect moves the state
// back to OFFLINE and is returned; the next call retries.
func (m *ManagerBase) Connect(ctx context.Context) error {
	if m.typ == TypeLocal {
		return m.initSelf(ctx)
	}

	return m.share(ctx, StageConnect, func(ctx context.Context) error {
		if err := m.initSelf(ctx); err != nil {
			return err
		}

		started, err := m.state.CompareAndTransition([]ServiceState{StateOffline}, StateConnecting)
		if err != nil {
			return err
		}
		if !started {
			// ONLINE, AUTHENTICATING or READY.
			return nil
		}

		err = safeCall(func() error { return m.connect(ctx, m.Disconnect) })
		if err != nil {
			// A racing Disconnect may already have moved us to OFFLINE.
			m.rollback(StateConnecting, StateOffline)
			m.reportError(StageConnect, err)
			return err
		}

		next := StateReady
		if m.typ == TypePrivate {
			next = StateOnline
		}
		_, err = m.state.CompareAndTransition([]ServiceState{StateConnecting}, next)
		return err
	})
}

// Authenticate connects the service if needed and then runs the auth
// callback. Non-private services only connect.
//
// A failing auth callback moves the state back to ONLINE but is not returned:
// Authenticate resolves and the service stays usable without credentials.
// Use OnError or IsAuthenticated to detect the failure.
func (m *ManagerBase) Authenticate(ctx context.Context) error {
	if m.typ != TypePrivate {
		return m.connectSelf(ctx)
	}

	return m.share(ctx, StageAuthenticate, func(ctx context.Context) error {
		if err := m.connectSelf(ctx); err != nil {
			return err
		}

		started, err := m.state.CompareAndTransition([]ServiceState{StateOnline}, StateAuthenticating)
		if err != nil {
			return err
		}
		if !started {
			// Already READY, or a disconnect landed after the connect above.
			return m.state.AssertState("authenticate", StateReady)
		}

		err = safeCall(func() error { return m.auth(ctx, m.Deauthenticate) })
		if err != nil {
			m.rollback(StateAuthenticating, StateOnline)
			m.reportError(StageAuthenticate, err)
			logging.Warn("ServiceManager", "Authentication of %s failed, staying %s: %v", m.label(), m.State(), err)
			return nil
		}

		_, err = m.state.CompareAndTransition([]ServiceState{StateAuthenticating}, StateReady)
		return err
	})
}

// Disconnect is called by the service implementation when it notices that
// its connection is gone. The state falls back to OFFLINE so that the next
// Connect is a real attempt.
func (m *ManagerBase) Disconnect() {
	if m.typ == TypeLocal {
		return
	}
	moved, err := m.state.CompareAndTransition(
		[]ServiceState{StateConnecting, StateOnline, StateAuthenticating, StateReady},
		StateOffline,
	)
	if err != nil {
		logging.Error("ServiceManager", err, "Failed to mark %s as disconnected", m.label())
		return
	}
	if moved {
		logging.Info("ServiceManager", "Service %s disconnected", m.label())
	}
}

// Deauthenticate is called by a private service implementation when it
// notices that its credentials are gone. The state falls back to ONLINE.
func (m *ManagerBase) Deauthenticate() {
	if m.typ != TypePrivate {
		return
	}
	moved, err := m.state.CompareAndTransition(
		[]ServiceState{StateAuthenticating, StateReady},
		StateOnline,
	)
	if err != nil {
		logging.Error("ServiceManager", err, "Failed to mark %s as deauthenticated", m.label())
		return
	}
	if moved {
		logging.Info("ServiceManager", "Service %s deauthenticated", m.label())
	}
}

// IsInitialized reports whether init completed.
func (m *ManagerBase) IsInitialized() bool {
	return !m.state.InState(StateCreated, StateInitializing)
}

// IsConnected reports whether the service is connected. applicable is false
// for local services, which never connect.
func (m *ManagerBase) IsConnected() (connected, applicable bool) {
	if m.typ == TypeLocal {
		return false, false
	}
	return m.state.InState(StateOnline, StateAuthenticating, StateReady), true
}

// IsAuthenticated reports whether the service is authenticated. applicable is
// false unless the service is private.
func (m *ManagerBase) IsAuthenticated() (authenticated, applicable bool) {
	if m.typ != TypePrivate {
		return false, false
	}
	return m.state.InState(StateReady), true
}

// IsReady reports whether the service reached the final state of its type.
func (m *ManagerBase) IsReady() bool {
	return m.state.InState(StateReady)
}

// OnStateChanged registers a handler for every effective transition.
func (m *ManagerBase) OnStateChanged(handler func(oldState, newState ServiceState)) {
	m.state.OnStateChanged(handler)
}

// OnInitialized fires when init succeeds.
func (m *ManagerBase) OnInitialized(handler func()) {
	m.onEdge(handler, []ServiceState{StateInitializing}, []ServiceState{StateReady, StateOffline})
}

// OnConnected fires when connect succeeds. It never fires for local services.
func (m *ManagerBase) OnConnected(handler func()) {
	m.onEdge(handler, []ServiceState{StateConnecting}, []ServiceState{StateOnline, StateReady})
}

// OnDisconnected fires when an established connection is lost.
func (m *ManagerBase) OnDisconnected(handler func()) {
	m.onEdge(handler, []ServiceState{StateOnline, StateAuthenticating, StateReady}, []ServiceState{StateOffline})
}

// OnAuthenticated fires when auth succeeds.
func (m *ManagerBase) OnAuthenticated(handler func()) {
	m.onEdge(handler, []ServiceState{StateAuthenticating}, []ServiceState{StateReady})
}

// OnDeauthenticated fires when an authenticated service loses its
// credentials but stays connected.
func (m *ManagerBase) OnDeauthenticated(handler func()) {
	m.onEdge(handler, []ServiceState{StateReady}, []ServiceState{StateOnline})
}

// OnReady fires whenever the service enters READY.
func (m *ManagerBase) OnReady(handler func()) {
	if handler == nil {
		return
	}
	m.state.OnStateChanged(func(_, newState ServiceState) {
		if newState == StateReady {
			handler()
		}
	})
}

// OnError registers a handler for failed lifecycle callbacks.
func (m *ManagerBase) OnError(handler ErrorHandler) {
	if handler == nil {
		return
	}
	m.mu.Lock()
	m.errorHandlers = append(m.errorHandlers, handler)
	m.mu.Unlock()
}

func (m *ManagerBase) onEdge(handler func(), from, to []ServiceState) {
	if handler == nil {
		return
	}
	m.state.OnStateChanged(func(oldState, newState ServiceState) {
		if slices.Contains(from, oldState) && slices.Contains(to, newState) {
			handler()
		}
	})
}

// share runs fn as the single in-flight attempt for stage. The attempt itself
// is detached from the caller's cancellation so that one impatient caller
// cannot fail the others; each caller still stops waiting when its own
// context ends.
func (m *ManagerBase) share(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	flightCtx := context.WithoutCancel(ctx)
	ch := m.flights.DoChan(string(stage), func() (interface{}, error) {
		return nil, fn(flightCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *ManagerBase) rollback(from, to ServiceState) {
	if _, err := m.state.CompareAndTransition([]ServiceState{from}, to); err != nil {
		logging.Error("ServiceManager", err, "Failed to roll %s back to %s", m.label(), to)
	}
}

func (m *ManagerBase) reportError(stage Stage, err error) {
	logging.Debug("ServiceManager", "Stage %s of %s failed: %v", stage, m.label(), err)

	m.mu.RLock()
	handlers := slices.Clone(m.errorHandlers)
	m.mu.RUnlock()

	for _, h := range handlers {
		h(stage, err)
	}
}

func (m *ManagerBase) label() string {
	if m.name == "" {
		return "anonymous service"
	}
	return m.name
}

// safeCall turns a panicking callback into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("lifecycle callback panicked: %w", e)
				return
			}
			err = fmt.Errorf("lifecycle callback panicked: %v", r)
		}
	}()
	return fn()
}
