package dependency

import (
	"fmt"
	"sort"
	"strings"
)

// NodeID is the unique identifier for a node inside a dependency graph. For
// the service container this is the registered service name.
type NodeID string

// Node represents a service together with its dependency list.
type Node struct {
	ID        NodeID
	DependsOn []NodeID
}

// CycleError is returned by TopologicalSort when the graph is not a DAG.
// Path lists the nodes that could not be ordered.
type CycleError struct {
	Path []NodeID
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, id := range e.Path {
		names[i] = string(id)
	}
	return fmt.Sprintf("circular dependency between: %s", strings.Join(names, ", "))
}

// MissingDependencyError is returned by TopologicalSort when a node depends on
// an ID that was never added.
type MissingDependencyError struct {
	Node       NodeID
	Dependency NodeID
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s depends on %s which is not in the graph", e.Node, e.Dependency)
}

// Graph is a very small helper to answer dependency queries.  It is *not*
// thread-safe by itself; callers must synchronise if they write concurrently.
type Graph struct {
	nodes map[NodeID]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// AddNode adds (or replaces) a node in the graph.
func (g *Graph) AddNode(n Node) {
	if g.nodes == nil {
		g.nodes = make(map[NodeID]*Node)
	}
	copied := Node{ID: n.ID, DependsOn: make([]NodeID, len(n.DependsOn))}
	copy(copied.DependsOn, n.DependsOn)
	g.nodes[n.ID] = &copied
}

// Get returns a pointer to the stored node or nil if it does not exist.
func (g *Graph) Get(id NodeID) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Dependencies returns a slice of immediate dependency IDs for the given node.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	if n, ok := g.nodes[id]; ok {
		depsCopy := make([]NodeID, len(n.DependsOn))
		copy(depsCopy, n.DependsOn)
		return depsCopy
	}
	return nil
}

// Dependents returns all node IDs that have a direct dependency on the given
// node, sorted.
func (g *Graph) Dependents(id NodeID) []NodeID {
	var res []NodeID
	for _, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == id {
				res = append(res, n.ID)
				break
			}
		}
	}
	sortIDs(res)
	return res
}

// TopologicalSort orders all nodes so that every dependency precedes its
// dependents. Nodes without dependencies come first, then every node whose
// dependencies were all emitted in an earlier wave; within a wave IDs are
// sorted so the result is stable across runs.
func (g *Graph) TopologicalSort() ([]NodeID, error) {
	indegree := make(map[NodeID]int, len(g.nodes))
	dependents := make(map[NodeID][]NodeID, len(g.nodes))

	for _, id := range g.ids() {
		n := g.nodes[id]
		seen := make(map[NodeID]bool, len(n.DependsOn))
		for _, dep := range n.DependsOn {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := g.nodes[dep]; !ok {
				return nil, &MissingDependencyError{Node: id, Dependency: dep}
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []NodeID
	for _, id := range g.ids() {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	// Walk in waves so that every dependency-free node precedes the rest.
	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		order = append(order, ready...)

		var next []NodeID
		for _, id := range ready {
			for _, dependent := range dependents[id] {
				indegree[dependent]--
				if indegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		sortIDs(next)
		ready = next
	}

	if len(order) != len(g.nodes) {
		var stuck []NodeID
		for _, id := range g.ids() {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, &CycleError{Path: stuck}
	}
	return order, nil
}

func (g *Graph) ids() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
