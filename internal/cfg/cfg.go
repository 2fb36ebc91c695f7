// Package cfg defines the control-flow graph contract: node iteration,
// edges, and which edges are the true/false halves of a conditional
// branch. The graph itself is built by an external pass from a function
// body. The inference engine does not take a Graph: it walks a function
// body's statements directly.
package cfg

import "github.com/nuxleus/closure-compiler/internal/ast"

// Node is one control-flow point. In practice this is the ast.Node the
// flow point corresponds to (a statement, or an expression that can
// itself branch, like the right side of `&&`).
type Node = ast.Node

// EdgeKind distinguishes an unconditional edge from the two halves of a
// branch, so the inference engine knows which narrowed environment to
// propagate along each edge.
type EdgeKind int

const (
	EdgeUnconditional EdgeKind = iota
	EdgeTrue
	EdgeFalse
)

// Edge is one directed control-flow edge.
type Edge struct {
	From, To Node
	Kind     EdgeKind
}

// Graph is the control-flow graph contract, built by an external pass.
// No package in this module consumes a Graph.
type Graph interface {
	Entry() Node
	Exit() Node
	Successors(n Node) []Edge
	Predecessors(n Node) []Edge

	// Nodes returns every node in the graph in an order suitable for a
	// first iteration of the fixpoint loop (e.g. reverse postorder); the
	// analysis must still converge regardless of visitation order.
	Nodes() []Node
}

// Linear is the simplest Graph: a straight-line sequence of nodes with no
// branches, for callers that have a flat statement list and no real CFG.
type Linear struct {
	nodes []Node
}

// NewLinear builds a Graph that threads nodes in order with no
// branching, every edge unconditional.
func NewLinear(nodes []Node) *Linear {
	return &Linear{nodes: nodes}
}

func (g *Linear) Entry() Node {
	if len(g.nodes) == 0 {
		return nil
	}
	return g.nodes[0]
}

func (g *Linear) Exit() Node {
	if len(g.nodes) == 0 {
		return nil
	}
	return g.nodes[len(g.nodes)-1]
}

func (g *Linear) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

func (g *Linear) Successors(n Node) []Edge {
	for i, cur := range g.nodes {
		if cur == n && i+1 < len(g.nodes) {
			return []Edge{{From: n, To: g.nodes[i+1], Kind: EdgeUnconditional}}
		}
	}
	return nil
}

func (g *Linear) Predecessors(n Node) []Edge {
	for i, cur := range g.nodes {
		if cur == n && i > 0 {
			return []Edge{{From: g.nodes[i-1], To: n, Kind: EdgeUnconditional}}
		}
	}
	return nil
}
