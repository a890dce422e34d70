// Package services provides the lifecycle and dependency-injection core of
// dai.
//
// Every component of the SDK (web3 connectivity, accounts, timers, events) is
// a Service: something that exposes a *Manager. The manager owns the
// service's lifecycle state machine, its settings and its named
// dependencies. A Container registers services, injects dependencies and
// walks lifecycle stages across the whole graph.
//
// # Service Types
//
// The callbacks a service supplies decide its type and therefore its
// transition table:
//
//	LOCAL    init                  CREATED → INITIALIZING → READY
//	PUBLIC   init, connect         ... → OFFLINE → CONNECTING → READY
//	PRIVATE  init, connect, auth   ... → CONNECTING → ONLINE → AUTHENTICATING → READY
//
// A failed init falls back to CREATED, a failed connect to OFFLINE and a
// failed auth to ONLINE. Services that lose their connection or credentials
// later call the disconnect / deauthenticate callbacks they were handed,
// which move the state back so the next Connect or Authenticate is a real
// retry.
//
// # Stage Semantics
//
//   - Initialize, Connect and Authenticate are idempotent. Concurrent callers
//     share a single in-flight attempt and observe the same result.
//   - Init and connect failures are returned to the caller.
//   - Auth failures are not: Authenticate returns nil and the service stays
//     ONLINE. Register an OnError handler or poll IsAuthenticated to notice.
//   - A Manager never runs its own callback for a stage before all of its
//     dependencies completed the same stage.
//
// # Container
//
//	c := services.NewContainer()
//	_ = c.Register(logService)
//	_ = c.Register(web3Service)
//	if err := c.InjectDependencies(); err != nil { ... }
//	if err := c.Authenticate(ctx); err != nil { ... }
//
// The container computes a topological order with the dependency package,
// with dependency-free services first, and walks it sequentially for each
// sweep. The order is cached and invalidated by every new registration.
// Dependency cycles are reported as *dependency.CycleError.
//
// # Hooks
//
// Managers expose OnInitialized, OnConnected, OnDisconnected,
// OnAuthenticated, OnDeauthenticated, OnReady, OnStateChanged and OnError.
// Handlers run synchronously on the goroutine that performed the
// transition, in registration order.
//
// # Thread Safety
//
// Container, Manager and ManagerBase are safe for concurrent use.
package services
