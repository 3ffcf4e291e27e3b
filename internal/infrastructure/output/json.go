package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/rollup/internal/domain/report"
)

// JSONFormatter formats runs as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the run as JSON.
func (f *JSONFormatter) Format(run *report.Run) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	// Encode adds the trailing newline
	return encoder.Encode(run)
}
