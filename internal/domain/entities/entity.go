// Package entities contains the entity graph: leaf variants, composites and
// the visitor contract evaluated over them. These are pure domain types with
// NO infrastructure dependencies.
package entities

import "github.com/reglet-dev/rollup/internal/domain/values"

// Entity is a node of the entity graph.
//
// The set of implementations is sealed: Entity is satisfied only by the leaf
// variants in this package and by *Composite.
type Entity interface {
	// Name returns the display name of the node.
	Name() string

	// Value returns the intrinsic value of a leaf, or the sum of the
	// children's values for a composite. Nothing is cached.
	Value() (values.Amount, error)

	// Accept evaluates the node with the given visitor. Leaves dispatch to
	// the visitor rule for their own variant; composites sum the results of
	// their children in insertion order.
	Accept(v Visitor) (values.Amount, error)

	entityNode()
}

// Leaf is a terminal node carrying variant-specific data.
// The variant set is closed: see values.AllKinds.
type Leaf interface {
	Entity

	// Kind identifies the variant.
	Kind() values.Kind

	// Fields returns the variant's data in generic form.
	Fields() Fields

	leafNode()
}

// Visitor is an operation defined once per report kind, with exactly one
// rule per leaf variant.
//
// Adding a variant means adding a method here, which breaks compilation of
// every existing visitor until it provides the new rule.
type Visitor interface {
	VisitEquipment(leaf Equipment) (values.Amount, error)
	VisitFixedPrice(leaf FixedPriceContract) (values.Amount, error)
	VisitTimeAndMaterials(leaf TimeAndMaterialsContract) (values.Amount, error)
	VisitSupport(leaf SupportContract) (values.Amount, error)
}

// Combinator folds child results into an accumulator.
// Children are always combined in insertion order.
type Combinator interface {
	// Identity is the starting accumulator and the value of an empty composite.
	Identity() values.Amount

	// Combine merges the next child result into the accumulator.
	Combine(acc, next values.Amount) (values.Amount, error)
}

// Sum is the default combinator: checked addition starting from zero.
type Sum struct{}

// Identity returns zero.
func (Sum) Identity() values.Amount { return values.Zero }

// Combine returns acc+next, failing on overflow.
func (Sum) Combine(acc, next values.Amount) (values.Amount, error) {
	return acc.Add(next)
}
