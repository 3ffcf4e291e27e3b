// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"io"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/report"
)

// GraphLoader loads graph documents from storage with includes resolved.
type GraphLoader interface {
	LoadGraph(path string) (*entities.Document, error)
}

// GraphValidator validates document structure against the graph schema.
type GraphValidator interface {
	Validate(doc *entities.Document) error
}

// OutputFormatter formats run results.
type OutputFormatter interface {
	Format(run *report.Run) error
}

// FormatterOptions configure output formatting.
type FormatterOptions struct {
	// GraphPath locates the graph file for formats that reference it.
	GraphPath string
	Indent    bool
	Color     bool
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
