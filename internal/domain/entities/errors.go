package entities

import "errors"

var (
	// ErrUnknownVariant indicates a leaf was requested for a kind outside the closed set.
	ErrUnknownVariant = errors.New("unknown leaf variant")

	// ErrInvalidField indicates a leaf field value is out of range.
	ErrInvalidField = errors.New("invalid leaf field")

	// ErrNilEntity indicates a composite holds a nil child.
	ErrNilEntity = errors.New("nil entity in graph")

	// ErrCyclicGraph indicates a composite contains itself, directly or transitively.
	ErrCyclicGraph = errors.New("cyclic graph")
)
