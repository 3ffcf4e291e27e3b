package services

import (
	"fmt"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// ReportAssembler applies a visitor to a graph and records every leaf line
// and composite subtotal.
type ReportAssembler struct{}

// NewReportAssembler creates a new report assembler.
func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{}
}

// Tally sums the visitor results of a flat list of leaves in order.
// An empty list totals zero.
func (a *ReportAssembler) Tally(v entities.Visitor, leaves ...entities.Leaf) (values.Amount, error) {
	total := values.Zero
	for i, leaf := range leaves {
		if leaf == nil {
			return 0, fmt.Errorf("%w at position %d", entities.ErrNilEntity, i)
		}
		amt, err := leaf.Accept(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", leaf.Name(), err)
		}
		total, err = total.Add(amt)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", leaf.Name(), err)
		}
	}
	return total, nil
}

// AssembleLeaves builds a report over a flat list of leaves, folding the
// line amounts with comb in order.
func (a *ReportAssembler) AssembleLeaves(
	visitorName string,
	v entities.Visitor,
	combName string,
	comb entities.Combinator,
	leaves []entities.Leaf,
) (*report.Report, error) {
	rep := &report.Report{
		Visitor:    visitorName,
		Combinator: combinatorLabel(combName),
		Lines:      make([]report.Line, 0, len(leaves)),
	}

	total := comb.Identity()
	for i, leaf := range leaves {
		if leaf == nil {
			return nil, fmt.Errorf("%w at position %d", entities.ErrNilEntity, i)
		}
		amt, err := leaf.Accept(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", leaf.Name(), err)
		}
		rep.Lines = append(rep.Lines, report.Line{
			Path:   leaf.Name(),
			Name:   leaf.Name(),
			Kind:   leaf.Kind(),
			Amount: amt,
			Index:  i,
		})
		total, err = comb.Combine(total, amt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", leaf.Name(), err)
		}
	}
	rep.Total = total
	return rep, nil
}

// Assemble evaluates root with the visitor. Each leaf produces a line and
// each composite a group holding its folded subtotal. The report total is
// the fold of root.
func (a *ReportAssembler) Assemble(
	visitorName string,
	v entities.Visitor,
	combName string,
	comb entities.Combinator,
	root entities.Entity,
) (*report.Report, error) {
	rep := &report.Report{
		Visitor:    visitorName,
		Combinator: combinatorLabel(combName),
		Lines:      make([]report.Line, 0),
	}

	err := entities.Walk(root, func(parents []string, e entities.Entity) error {
		path := entities.JoinPath(parents, e.Name())
		switch n := e.(type) {
		case *entities.Composite:
			amt, err := n.Fold(v, comb)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep.Groups = append(rep.Groups, report.Group{
				Path:     path,
				Name:     n.Name(),
				Amount:   amt,
				Children: n.Len(),
				Depth:    len(parents),
			})
		case entities.Leaf:
			amt, err := n.Accept(v)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep.Lines = append(rep.Lines, report.Line{
				Path:   path,
				Name:   n.Name(),
				Kind:   n.Kind(),
				Amount: amt,
				Index:  len(rep.Lines),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep.Total, err = a.fold(root, v, comb)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *ReportAssembler) fold(root entities.Entity, v entities.Visitor, comb entities.Combinator) (values.Amount, error) {
	if c, ok := root.(*entities.Composite); ok {
		return c.Fold(v, comb)
	}
	amt, err := root.Accept(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", root.Name(), err)
	}
	return comb.Combine(comb.Identity(), amt)
}

func combinatorLabel(name string) string {
	if name == "" {
		return CombinatorSum
	}
	return name
}
