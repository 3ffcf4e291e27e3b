package dto

import (
	"time"

	"github.com/reglet-dev/rollup/internal/domain/report"
)

// ReportGraphResponse contains the result of reporting on a graph.
type ReportGraphResponse struct {
	// Run contains the reports and budget results
	Run *report.Run

	// Metadata contains response metadata
	Metadata ResponseMetadata

	// Diagnostics contains additional diagnostic information
	Diagnostics Diagnostics
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}

// Diagnostics contains diagnostic information about evaluation.
type Diagnostics struct {
	// Warnings are non-fatal issues encountered
	Warnings []string

	// Leaves is the number of leaves evaluated after filtering
	Leaves int

	// FilteredLeaves is the number of leaves removed by filters
	FilteredLeaves int
}

// ValidateGraphResponse summarizes a valid graph document.
type ValidateGraphResponse struct {
	GraphName    string
	GraphVersion string
	Leaves       int
	Composites   int
	Budgets      int
}
