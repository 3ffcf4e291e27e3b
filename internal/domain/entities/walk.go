package entities

import (
	"fmt"
	"strings"
)

// PathSeparator joins node names into a path.
const PathSeparator = "/"

// WalkFunc is called for every node in pre-order. path holds the names of the
// enclosing composites, root first, and does not include the node itself.
type WalkFunc func(path []string, e Entity) error

// Walk visits root and all descendants depth-first in insertion order.
// It fails with ErrCyclicGraph or ErrNilEntity on malformed graphs and stops at
// the first error returned by fn.
func Walk(root Entity, fn WalkFunc) error {
	var a ancestry
	return walk(&a, root, fn)
}

func walk(a *ancestry, e Entity, fn WalkFunc) error {
	switch n := e.(type) {
	case nil:
		return fmt.Errorf("%w under %s", ErrNilEntity, strings.Join(a.path(), PathSeparator))
	case *Composite:
		if n == nil {
			return fmt.Errorf("%w under %s", ErrNilEntity, strings.Join(a.path(), PathSeparator))
		}
		if err := a.push(n); err != nil {
			return err
		}
		defer a.pop()

		if err := fn(a.path()[:len(a.stack)-1], n); err != nil {
			return err
		}
		for _, child := range n.children {
			if err := walk(a, child, fn); err != nil {
				return err
			}
		}
		return nil
	default:
		return fn(a.path(), e)
	}
}

// LeafRef is a leaf together with its location in the graph.
type LeafRef struct {
	Leaf Leaf
	// Parents holds the names of the enclosing composites, root first.
	Parents []string
}

// Path returns the slash-joined location of the leaf including its own name.
func (r LeafRef) Path() string {
	return JoinPath(r.Parents, r.Leaf.Name())
}

// Leaves flattens the graph into its leaves in depth-first insertion order.
func Leaves(root Entity) ([]LeafRef, error) {
	var refs []LeafRef
	err := Walk(root, func(path []string, e Entity) error {
		if leaf, ok := e.(Leaf); ok {
			refs = append(refs, LeafRef{Leaf: leaf, Parents: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// JoinPath joins parent names and a node name.
func JoinPath(parents []string, name string) string {
	if len(parents) == 0 {
		return name
	}
	return strings.Join(parents, PathSeparator) + PathSeparator + name
}
