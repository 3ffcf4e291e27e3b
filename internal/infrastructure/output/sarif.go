// Package output provides formatters for rollup runs.
package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/rollup/internal/domain/report"
)

// SARIFFormatter formats runs as SARIF 2.1.0 JSON.
// It maps budgets to SARIF rules and budget outcomes to results located in
// the graph file.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, "graph.yaml")
//	if err := formatter.Format(run); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer    io.Writer
	graphPath string
}

// NewSARIFFormatter creates a new SARIF formatter.
// graphPath is used to locate budget definitions.
func NewSARIFFormatter(writer io.Writer, graphPath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:    writer,
		graphPath: graphPath,
	}
}

// Format writes the run as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(run *report.Run) error {
	sarifReport := sarif.NewReport()

	sarifRun := sarif.NewRunWithInformationURI("Rollup", "https://github.com/reglet-dev/rollup")
	sarifRun.Tool.Driver.Version = &run.RollupVersion
	sarifRun.Tool.Driver.Organization = ptrString("Reglet")

	mapper := newSARIFMapper(run, f.graphPath)
	mapper.mapToRun(sarifRun)

	sarifReport.AddRun(sarifRun)

	if err := sarifReport.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}
