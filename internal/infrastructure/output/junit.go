package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// JUnitFormatter formats budget outcomes as JUnit XML. Each budget is a
// test case, so CI systems can gate on cost limits.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
}

// JUnitTestSuite is one graph evaluation.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
}

// JUnitProperty carries a report total.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitTestCase is one budget.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	Time      float64       `xml:"time,attr"`
}

// JUnitFailure marks a budget whose expectations were not met.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// JUnitError marks a budget that could not be evaluated.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// JUnitSkipped marks a budget that was not evaluated.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the run's budgets as JUnit XML.
func (f *JUnitFormatter) Format(run *report.Run) error {
	suite := JUnitTestSuite{
		Name:     run.GraphName,
		Tests:    run.Summary.TotalBudgets,
		Failures: run.Summary.FailedBudgets,
		Errors:   run.Summary.ErrorBudgets,
		Time:     run.Duration.Seconds(),
	}

	for _, rep := range run.Reports {
		suite.Properties = append(suite.Properties, JUnitProperty{
			Name:  "total." + rep.Visitor,
			Value: rep.Total.String(),
		})
	}

	for _, b := range run.Budgets {
		c := JUnitTestCase{
			Name:      b.Name,
			ClassName: run.GraphName,
		}

		switch b.Status {
		case values.StatusFail:
			c.Failure = &JUnitFailure{
				Message: b.Message,
				Content: formatExpectations(b),
			}
		case values.StatusError:
			c.Error = &JUnitError{
				Message: b.Message,
				Content: formatExpectations(b),
			}
		case values.StatusSkipped:
			suite.Skipped++
			c.Skipped = &JUnitSkipped{
				Message: b.Message,
			}
		}

		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       "Rollup Budgets",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func formatExpectations(b report.BudgetResult) string {
	var sb strings.Builder
	for _, exp := range b.Expectations {
		if exp.Passed {
			continue
		}
		fmt.Fprintf(&sb, "Expectation: %s\n", exp.Expression)
		if exp.Message != "" {
			fmt.Fprintf(&sb, "Result: %s\n", exp.Message)
		}
	}
	return sb.String()
}
