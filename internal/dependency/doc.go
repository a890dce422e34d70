// Package dependency provides the directed acyclic graph used by the service
// container to order lifecycle sweeps.
//
// Each node is a registered service and each edge points from a service to
// one of the services it depends on. TopologicalSort returns an order in which
// every dependency precedes its dependents, so walking it front to back
// initializes leaves first.
//
//	g := dependency.New()
//	g.AddNode(dependency.Node{ID: "log"})
//	g.AddNode(dependency.Node{ID: "event", DependsOn: []dependency.NodeID{"log"}})
//	g.AddNode(dependency.Node{ID: "web3", DependsOn: []dependency.NodeID{"log", "event"}})
//
//	order, err := g.TopologicalSort()
//	// order: [log event web3]
//
// Ordering is deterministic. The sort proceeds in waves: first every node
// without dependencies, then every node whose dependencies all appeared in an
// earlier wave, and so on. Each wave is sorted by ID.
//
// # Error Handling
//
//   - CycleError: the graph contains a cycle; Path lists the nodes on or
//     behind it.
//   - MissingDependencyError: a node depends on an ID that was never added.
//
// The Graph type is not thread-safe; the container builds it under its own
// lock.
package dependency
