package services

import "github.com/reglet-dev/rollup/internal/domain/entities"

// DocumentMerger combines the budgets and vars of included documents with
// those of the including document.
type DocumentMerger struct{}

// NewDocumentMerger creates a new document merger.
func NewDocumentMerger() *DocumentMerger {
	return &DocumentMerger{}
}

// MergeAllBudgets merges budget lists in order; later lists override earlier ones.
func (m *DocumentMerger) MergeAllBudgets(lists ...[]entities.BudgetSpec) []entities.BudgetSpec {
	var result []entities.BudgetSpec
	for _, list := range lists {
		result = m.MergeBudgets(result, list)
	}
	return result
}

// MergeBudgets merges budgets by name.
// Same name = overlay replaces base.
// New name = appended to result.
// Order is preserved: base budgets first, then new overlay budgets.
func (m *DocumentMerger) MergeBudgets(base, overlay []entities.BudgetSpec) []entities.BudgetSpec {
	overlayMap := make(map[string]entities.BudgetSpec, len(overlay))
	overlayOrder := make([]string, 0, len(overlay))
	for _, b := range overlay {
		if _, dup := overlayMap[b.Name]; !dup {
			overlayOrder = append(overlayOrder, b.Name)
		}
		overlayMap[b.Name] = b
	}

	seen := make(map[string]bool)
	result := make([]entities.BudgetSpec, 0, len(base)+len(overlay))

	for _, b := range base {
		seen[b.Name] = true
		if o, exists := overlayMap[b.Name]; exists {
			result = append(result, o)
		} else {
			result = append(result, b)
		}
	}

	for _, name := range overlayOrder {
		if !seen[name] {
			result = append(result, overlayMap[name])
		}
	}

	if len(result) == 0 {
		return nil
	}
	return copyBudgets(result)
}

// MergeVars performs a shallow merge of vars maps with later maps winning.
func (m *DocumentMerger) MergeVars(maps ...map[string]interface{}) map[string]interface{} {
	var result map[string]interface{}
	for _, vars := range maps {
		if vars == nil {
			continue
		}
		if result == nil {
			result = make(map[string]interface{}, len(vars))
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result
}
