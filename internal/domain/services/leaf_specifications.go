package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/rollup/internal/domain/entities"
)

// LeafSpecification defines a condition that a leaf must meet.
type LeafSpecification interface {
	// IsSatisfiedBy checks if the leaf meets the specification.
	// Returns true if satisfied, along with a reason if not. An error means
	// the leaf could not be judged.
	IsSatisfiedBy(ref entities.LeafRef) (bool, string, error)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []LeafSpecification
}

// NewAndSpecification creates a new AndSpecification.
func NewAndSpecification(specs ...LeafSpecification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(ref entities.LeafRef) (bool, string, error) {
	for _, spec := range s.specs {
		satisfied, reason, err := spec.IsSatisfiedBy(ref)
		if err != nil {
			return false, "", err
		}
		if !satisfied {
			return false, reason, nil
		}
	}
	return true, "", nil
}

// IncludedKindsSpecification keeps only leaves of the listed kinds.
type IncludedKindsSpecification struct {
	kinds map[string]bool
}

// NewIncludedKindsSpecification creates a new IncludedKindsSpecification.
func NewIncludedKindsSpecification(kinds map[string]bool) *IncludedKindsSpecification {
	return &IncludedKindsSpecification{kinds: kinds}
}

// IsSatisfiedBy checks if the leaf kind is listed.
func (s *IncludedKindsSpecification) IsSatisfiedBy(ref entities.LeafRef) (bool, string, error) {
	if len(s.kinds) == 0 || s.kinds[ref.Leaf.Kind().String()] {
		return true, "", nil
	}
	return false, "excluded by --kind filter", nil
}

// ExcludedKindsSpecification drops leaves of the listed kinds.
type ExcludedKindsSpecification struct {
	kinds map[string]bool
}

// NewExcludedKindsSpecification creates a new ExcludedKindsSpecification.
func NewExcludedKindsSpecification(kinds map[string]bool) *ExcludedKindsSpecification {
	return &ExcludedKindsSpecification{kinds: kinds}
}

// IsSatisfiedBy checks that the leaf kind is not listed.
func (s *ExcludedKindsSpecification) IsSatisfiedBy(ref entities.LeafRef) (bool, string, error) {
	if s.kinds[ref.Leaf.Kind().String()] {
		return false, "excluded by --exclude-kind filter", nil
	}
	return true, "", nil
}

// PathPrefixSpecification keeps leaves at or below one of the given paths.
type PathPrefixSpecification struct {
	prefixes []string
}

// NewPathPrefixSpecification creates a new PathPrefixSpecification.
func NewPathPrefixSpecification(prefixes []string) *PathPrefixSpecification {
	return &PathPrefixSpecification{prefixes: prefixes}
}

// IsSatisfiedBy checks if the leaf path falls under any prefix.
func (s *PathPrefixSpecification) IsSatisfiedBy(ref entities.LeafRef) (bool, string, error) {
	if len(s.prefixes) == 0 {
		return true, "", nil
	}
	path := ref.Path()
	for _, prefix := range s.prefixes {
		prefix = strings.TrimSuffix(prefix, entities.PathSeparator)
		if path == prefix || strings.HasPrefix(path, prefix+entities.PathSeparator) {
			return true, "", nil
		}
	}
	return false, "excluded by --path filter", nil
}

// ExpressionSpecification filters leaves using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
}

// NewExpressionSpecification creates a new ExpressionSpecification.
func NewExpressionSpecification(program *vm.Program) *ExpressionSpecification {
	return &ExpressionSpecification{program: program}
}

// IsSatisfiedBy evaluates the expr program against the leaf.
func (s *ExpressionSpecification) IsSatisfiedBy(ref entities.LeafRef) (bool, string, error) {
	if s.program == nil {
		return true, "", nil
	}

	env, err := NewLeafEnv(ref)
	if err != nil {
		return false, "", fmt.Errorf("filter expression on %s: %w", ref.Path(), err)
	}

	output, err := expr.Run(s.program, env)
	if err != nil {
		return false, "", fmt.Errorf("filter expression on %s: %w", ref.Path(), err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, "", fmt.Errorf("filter expression on %s did not return boolean: %v", ref.Path(), output)
	}
	if !result {
		return false, "excluded by --filter expression", nil
	}
	return true, "", nil
}
