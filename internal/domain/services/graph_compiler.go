package services

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/rollup/internal/domain/entities"
)

// GraphCompiler transforms a parsed document into an evaluable graph.
//
// Compilation steps:
// 1. Validate document-level invariants
// 2. Check the graph version is semver
// 3. Build every node, collecting all node errors
// 4. Copy the budgets so the graph does not alias the document
type GraphCompiler struct {
	variants *VariantRegistry
}

// NewGraphCompiler creates a compiler using the default variant decoders.
func NewGraphCompiler() *GraphCompiler {
	return &GraphCompiler{variants: MustNewVariantRegistry()}
}

// Compile builds a graph from doc. The document is not modified.
func (c *GraphCompiler) Compile(doc *entities.Document) (*entities.Graph, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot compile nil document")
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document validation failed: %w", err)
	}

	if _, err := semver.NewVersion(doc.Metadata.Version); err != nil {
		return nil, fmt.Errorf("graph version %q is not valid semver: %w", doc.Metadata.Version, err)
	}

	var errs []error
	root := c.build(&doc.Root, nil, &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("graph compilation failed: %w", errors.Join(errs...))
	}

	return entities.NewGraph(doc.Metadata, root, copyBudgets(doc.Budgets)), nil
}

func (c *GraphCompiler) build(spec *entities.NodeSpec, parents []string, errs *[]error) entities.Entity {
	path := displayPath(parents, spec)

	if spec.IsInclude() {
		*errs = append(*errs, fmt.Errorf("%s: unresolved include %q", path, spec.Include))
		return nil
	}

	if spec.IsLeaf() {
		if len(spec.Children) > 0 {
			*errs = append(*errs, fmt.Errorf("%s: leaf of kind %s cannot have children", path, spec.Kind))
			return nil
		}
		leaf, err := c.variants.Decode(spec)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		return leaf
	}

	if spec.Name == "" {
		*errs = append(*errs, fmt.Errorf("%s: composite name cannot be empty", path))
		return nil
	}
	if spec.HasFields() {
		*errs = append(*errs, fmt.Errorf("%s: composite cannot set leaf fields (missing kind?)", path))
		return nil
	}

	composite := entities.NewComposite(spec.Name)
	childParents := append(append([]string(nil), parents...), spec.Name)
	for i := range spec.Children {
		child := c.build(&spec.Children[i], childParents, errs)
		if child != nil {
			composite.Add(child)
		}
	}
	return composite
}

// displayPath names a node in errors, using a placeholder for unnamed
// nodes.
func displayPath(parents []string, spec *entities.NodeSpec) string {
	name := spec.Name
	if name == "" {
		name = "<unnamed>"
		if spec.Kind != "" {
			name = "<" + spec.Kind + ">"
		}
	}
	return entities.JoinPath(parents, name)
}

func copyBudgets(src []entities.BudgetSpec) []entities.BudgetSpec {
	if src == nil {
		return nil
	}
	dst := make([]entities.BudgetSpec, len(src))
	for i, b := range src {
		dst[i] = entities.BudgetSpec{
			Name:        b.Name,
			Description: b.Description,
			Expect:      append([]string(nil), b.Expect...),
		}
	}
	return dst
}
