package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/rollup/internal/domain/report"
)

// YAMLFormatter formats runs as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the run as YAML.
func (f *YAMLFormatter) Format(run *report.Run) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(run); err != nil {
		return err
	}

	return encoder.Close()
}
