package entities

import "github.com/reglet-dev/rollup/internal/domain/values"

// Graph is a compiled, validated entity graph ready for evaluation.
// It is created by the graph compiler and not modified afterwards.
type Graph struct {
	Root     Entity
	Budgets  []BudgetSpec
	Metadata GraphMetadata
}

// NewGraph creates a Graph.
// This is an internal constructor - use GraphCompiler.Compile() instead.
func NewGraph(meta GraphMetadata, root Entity, budgets []BudgetSpec) *Graph {
	return &Graph{
		Metadata: meta,
		Root:     root,
		Budgets:  budgets,
	}
}

// Leaves returns the graph's leaves in depth-first insertion order.
func (g *Graph) Leaves() ([]LeafRef, error) {
	return Leaves(g.Root)
}

// Value returns the aggregate value of the root.
func (g *Graph) Value() (values.Amount, error) {
	return g.Root.Value()
}
