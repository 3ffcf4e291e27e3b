package entities

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/rollup/internal/domain/values"
)

// Composite is a node whose value is derived from an ordered list of children.
//
// Insertion order is preserved and duplicates are permitted. The graph must
// be acyclic; traversals detect a composite that reaches itself and fail with
// ErrCyclicGraph instead of recursing forever.
//
// Composites are built once and then evaluated read-only. Add must not run
// concurrently with any evaluation of the same graph.
type Composite struct {
	name     string
	children []Entity
}

// NewComposite creates an empty composite.
func NewComposite(name string) *Composite {
	return &Composite{name: name}
}

// Name returns the display name.
func (c *Composite) Name() string { return c.name }

// Add appends a child and returns the composite for chaining.
func (c *Composite) Add(child Entity) *Composite {
	c.children = append(c.children, child)
	return c
}

// Children returns a copy of the child list in insertion order.
func (c *Composite) Children() []Entity {
	out := make([]Entity, len(c.children))
	copy(out, c.children)
	return out
}

// Len returns the number of direct children.
func (c *Composite) Len() int { return len(c.children) }

// Value returns the sum of the children's values. An empty composite is 0.
func (c *Composite) Value() (values.Amount, error) {
	t := &traversal{
		leaf:    func(l Leaf) (values.Amount, error) { return l.Value() },
		combine: Sum{},
	}
	return t.eval(c)
}

// Accept sums the visitor results of all children.
func (c *Composite) Accept(v Visitor) (values.Amount, error) {
	return c.Fold(v, Sum{})
}

// Fold evaluates every child with the visitor and combines the results in
// insertion order, recursing into nested composites with the same combinator.
func (c *Composite) Fold(v Visitor, comb Combinator) (values.Amount, error) {
	t := &traversal{
		leaf:    func(l Leaf) (values.Amount, error) { return l.Accept(v) },
		combine: comb,
	}
	return t.eval(c)
}

func (*Composite) entityNode() {}

// ancestry is the chain of composites from the traversal root to the current node.
type ancestry struct {
	stack []*Composite
}

func (a *ancestry) push(c *Composite) error {
	for i, seen := range a.stack {
		if seen == c {
			cycle := make([]string, 0, len(a.stack)-i+1)
			for _, p := range a.stack[i:] {
				cycle = append(cycle, p.name)
			}
			cycle = append(cycle, c.name)
			return fmt.Errorf("%w: %s", ErrCyclicGraph, strings.Join(cycle, " -> "))
		}
	}
	a.stack = append(a.stack, c)
	return nil
}

func (a *ancestry) pop() {
	a.stack = a.stack[:len(a.stack)-1]
}

func (a *ancestry) path() []string {
	names := make([]string, len(a.stack))
	for i, c := range a.stack {
		names[i] = c.name
	}
	return names
}

type traversal struct {
	ancestry
	leaf    func(Leaf) (values.Amount, error)
	combine Combinator
}

func (t *traversal) eval(e Entity) (values.Amount, error) {
	switch n := e.(type) {
	case nil:
		return 0, t.nilChild()
	case *Composite:
		if n == nil {
			return 0, t.nilChild()
		}
		return t.fold(n)
	case Leaf:
		amt, err := t.leaf(n)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", n.Name(), err)
		}
		return amt, nil
	default:
		// Entity is sealed, so this is unreachable outside the package.
		return 0, fmt.Errorf("unsupported entity type %T", e)
	}
}

func (t *traversal) fold(c *Composite) (values.Amount, error) {
	if err := t.push(c); err != nil {
		return 0, err
	}
	defer t.pop()

	acc := t.combine.Identity()
	for _, child := range c.children {
		amt, err := t.eval(child)
		if err != nil {
			return 0, err
		}
		acc, err = t.combine.Combine(acc, amt)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return acc, nil
}

func (t *traversal) nilChild() error {
	return fmt.Errorf("%w under %s", ErrNilEntity, strings.Join(t.path(), "/"))
}
