// Package dto contains data transfer objects for application layer use cases.
package dto

// ReportGraphRequest encapsulates all inputs needed to report on a graph.
type ReportGraphRequest struct {
	Options    ReportOptions
	GraphPath  string
	Combinator string
	Visitors   []string
	Metadata   RequestMetadata
	Filters    FilterOptions
}

// FilterOptions defines filters for leaf selection.
type FilterOptions struct {
	FilterExpression string
	IncludeKinds     []string
	ExcludeKinds     []string
	Paths            []string
}

// ReportOptions controls how the graph is evaluated.
type ReportOptions struct {
	// RollupVersion is recorded on the run.
	RollupVersion string

	SkipSchemaValidation bool

	// SkipBudgets leaves budgets unevaluated.
	SkipBudgets bool
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

// ValidateGraphRequest encapsulates inputs for validating a graph document.
type ValidateGraphRequest struct {
	GraphPath            string
	SkipSchemaValidation bool
}
