package entities

import "fmt"

// Document is the serialized form of an entity graph, as written in a graph
// file. It is an aggregate root: the compiler turns it into a Graph.
//
// Invariants Enforced:
// - Graph name and version are required
// - Budget names are unique and every budget has at least one expectation
type Document struct {
	Metadata GraphMetadata          `json:"graph" yaml:"graph"`
	Root     NodeSpec               `json:"root" yaml:"root"`
	Vars     map[string]interface{} `json:"vars,omitempty" yaml:"vars,omitempty"`
	Budgets  []BudgetSpec           `json:"budgets,omitempty" yaml:"budgets,omitempty"`
}

// GraphMetadata contains metadata about the graph.
type GraphMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeSpec describes one node. A node with a kind is a leaf; a node without
// one is a composite. Include pulls the node in from another file and is
// resolved by the loader before compilation.
type NodeSpec struct {
	Price        *int64     `json:"price,omitempty" yaml:"price,omitempty"`
	CostPerYear  *int64     `json:"cost_per_year,omitempty" yaml:"cost_per_year,omitempty"`
	CostPerHour  *int64     `json:"cost_per_hour,omitempty" yaml:"cost_per_hour,omitempty"`
	Hours        *int64     `json:"hours,omitempty" yaml:"hours,omitempty"`
	CostPerMonth *int64     `json:"cost_per_month,omitempty" yaml:"cost_per_month,omitempty"`
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Kind         string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Include      string     `json:"include,omitempty" yaml:"include,omitempty"`
	Children     []NodeSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// BudgetSpec declares expectations over the totals of a run.
type BudgetSpec struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Expect      []string `json:"expect" yaml:"expect"`
}

// IsLeaf returns true if the node declares a kind.
func (n *NodeSpec) IsLeaf() bool {
	return n.Kind != ""
}

// IsInclude returns true if the node is an unresolved include.
func (n *NodeSpec) IsInclude() bool {
	return n.Include != ""
}

// HasFields returns true if any leaf field is set.
func (n *NodeSpec) HasFields() bool {
	return n.Price != nil || n.CostPerYear != nil || n.CostPerHour != nil ||
		n.Hours != nil || n.CostPerMonth != nil
}

// CountNodes returns the number of nodes in the subtree, including this one.
func (n *NodeSpec) CountNodes() int {
	count := 1
	for i := range n.Children {
		count += n.Children[i].CountNodes()
	}
	return count
}

// Validate checks document-level invariants. Node-level rules are enforced
// by the graph compiler.
func (d *Document) Validate() error {
	if d.Metadata.Name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}
	if d.Metadata.Version == "" {
		return fmt.Errorf("graph version cannot be empty")
	}

	budgetNames := make(map[string]bool)
	for i, b := range d.Budgets {
		if b.Name == "" {
			return fmt.Errorf("budget %d: name cannot be empty", i)
		}
		if budgetNames[b.Name] {
			return fmt.Errorf("duplicate budget name: %s", b.Name)
		}
		budgetNames[b.Name] = true

		if len(b.Expect) == 0 {
			return fmt.Errorf("budget %s: must have at least one expectation", b.Name)
		}
	}

	return nil
}

// GetBudget retrieves a budget by name.
func (d *Document) GetBudget(name string) *BudgetSpec {
	for i := range d.Budgets {
		if d.Budgets[i].Name == name {
			return &d.Budgets[i]
		}
	}
	return nil
}
