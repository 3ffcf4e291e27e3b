package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/rollup/internal/domain/entities"
)

// LeafEnv defines the variables available during filter expression evaluation.
type LeafEnv struct {
	Name  string `expr:"name"`
	Kind  string `expr:"kind"`
	Path  string `expr:"path"`
	Value int64  `expr:"value"`
}

// NewLeafEnv builds the filter environment for a leaf.
func NewLeafEnv(ref entities.LeafRef) (LeafEnv, error) {
	v, err := ref.Leaf.Value()
	if err != nil {
		return LeafEnv{}, err
	}
	return LeafEnv{
		Name:  ref.Leaf.Name(),
		Kind:  ref.Leaf.Kind().String(),
		Path:  ref.Path(),
		Value: v.Int64(),
	}, nil
}

// CompileFilterExpression compiles a boolean filter over LeafEnv.
func CompileFilterExpression(expression string) (*vm.Program, error) {
	if len(expression) > maxExpressionLength {
		return nil, fmt.Errorf("filter expression too long (max %d chars): %d chars", maxExpressionLength, len(expression))
	}
	program, err := expr.Compile(expression, expr.Env(LeafEnv{}), expr.AsBool(), expr.MaxNodes(maxASTNodes))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// LeafFilter selects which leaves take part in a report.
type LeafFilter struct {
	includeKinds map[string]bool
	excludeKinds map[string]bool
	pathPrefixes []string

	filterProgram *vm.Program
}

// NewLeafFilter initializes a new empty filter that keeps every leaf.
func NewLeafFilter() *LeafFilter {
	return &LeafFilter{
		includeKinds: make(map[string]bool),
		excludeKinds: make(map[string]bool),
	}
}

// WithKinds keeps only leaves of these kinds.
func (f *LeafFilter) WithKinds(kinds []string) *LeafFilter {
	f.includeKinds = toKindSet(kinds)
	return f
}

// WithExcludedKinds drops leaves of these kinds.
func (f *LeafFilter) WithExcludedKinds(kinds []string) *LeafFilter {
	f.excludeKinds = toKindSet(kinds)
	return f
}

// WithPathPrefixes keeps only leaves at or below these paths.
func (f *LeafFilter) WithPathPrefixes(prefixes []string) *LeafFilter {
	f.pathPrefixes = prefixes
	return f
}

// WithFilterExpression sets a compiled expr program for filtering.
func (f *LeafFilter) WithFilterExpression(program *vm.Program) *LeafFilter {
	f.filterProgram = program
	return f
}

// IsEmpty returns true if the filter keeps every leaf.
func (f *LeafFilter) IsEmpty() bool {
	return len(f.includeKinds) == 0 && len(f.excludeKinds) == 0 &&
		len(f.pathPrefixes) == 0 && f.filterProgram == nil
}

// ShouldInclude determines whether a leaf takes part in the report. Errors
// from evaluating the filter expression are returned, never treated as a miss.
func (f *LeafFilter) ShouldInclude(ref entities.LeafRef) (bool, string, error) {
	var specs []LeafSpecification

	if len(f.excludeKinds) > 0 {
		specs = append(specs, NewExcludedKindsSpecification(f.excludeKinds))
	}
	if len(f.includeKinds) > 0 {
		specs = append(specs, NewIncludedKindsSpecification(f.includeKinds))
	}
	if len(f.pathPrefixes) > 0 {
		specs = append(specs, NewPathPrefixSpecification(f.pathPrefixes))
	}
	if f.filterProgram != nil {
		specs = append(specs, NewExpressionSpecification(f.filterProgram))
	}

	return NewAndSpecification(specs...).IsSatisfiedBy(ref)
}

// Prune returns a copy of the graph holding only the leaves the filter keeps.
// Composites are kept even when they end up empty. The input is not modified.
func (f *LeafFilter) Prune(root entities.Entity) (entities.Entity, error) {
	// Walk rejects cycles and nil children before the rebuild recurses.
	if err := entities.Walk(root, func([]string, entities.Entity) error { return nil }); err != nil {
		return nil, err
	}
	if f.IsEmpty() {
		return root, nil
	}

	pruned, keep, err := f.prune(nil, root)
	if err != nil {
		return nil, err
	}
	if !keep {
		return entities.NewComposite(root.Name()), nil
	}
	return pruned, nil
}

func (f *LeafFilter) prune(parents []string, e entities.Entity) (entities.Entity, bool, error) {
	switch n := e.(type) {
	case *entities.Composite:
		out := entities.NewComposite(n.Name())
		childParents := append(append([]string(nil), parents...), n.Name())
		for _, child := range n.Children() {
			kept, ok, err := f.prune(childParents, child)
			if err != nil {
				return nil, false, err
			}
			if ok {
				out.Add(kept)
			}
		}
		return out, true, nil
	case entities.Leaf:
		ok, _, err := f.ShouldInclude(entities.LeafRef{Leaf: n, Parents: parents})
		if err != nil {
			return nil, false, err
		}
		return n, ok, nil
	default:
		return nil, false, nil
	}
}

func toKindSet(kinds []string) map[string]bool {
	s := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return s
}
