// Package provider turns the per-role service configuration of an
// application into a wired services.Container.
//
// A role is the name other services use to depend on a component ("web3",
// "timer", ...). Each role is configured with a shorthand that Parse turns
// into a ServiceConfig once, when the configuration is read:
//
//	timer: true                      # the role's default implementation
//	log: false                       # the role's disabled implementation
//	web3: HttpWeb3                   # a named implementation
//	web3: { url: http://node:8545 }  # default implementation with settings
//	web3: [HttpWeb3, { url: ... }]   # explicit implementation and settings
//
// Go callers can additionally pass a Factory or a ready-made
// services.Service. Resolve maps a ServiceConfig to an instance using a
// Resolver, and Provider.BuildContainer registers every configured role,
// adds default implementations for dependencies nobody configured, and
// injects the dependency graph.
package provider
