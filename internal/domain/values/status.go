package values

import "fmt"

// Status represents the outcome of a budget check or a whole run.
type Status string

const (
	// StatusPass indicates every expectation held
	StatusPass Status = "pass"
	// StatusFail indicates an expectation evaluated to false
	StatusFail Status = "fail"
	// StatusError indicates an expectation could not be evaluated
	StatusError Status = "error"
	// StatusSkipped indicates there was nothing to check
	StatusSkipped Status = "skipped"
)

// Precedence returns the numeric precedence of this status.
// Higher values win when statuses are aggregated.
//
// Precedence: Fail (3) > Error (2) > Skipped (1) > Pass (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFail:
		return 3
	case StatusError:
		return 2
	case StatusSkipped:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// IsFailure returns true if this status represents a failure or error
func (s Status) IsFailure() bool {
	return s == StatusFail || s == StatusError
}

// IsSuccess returns true if this status represents success
func (s Status) IsSuccess() bool {
	return s == StatusPass
}

// Validate returns an error if the status value is invalid
func (s Status) Validate() error {
	switch s {
	case StatusPass, StatusFail, StatusError, StatusSkipped:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}
