package domain

import "errors"

var (
	// ErrValidation indicates input was rejected before any state mutation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition indicates an attempted status change that is not
	// an edge of the quotation lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotReady indicates an operation that requires a later lifecycle
	// state, such as downloading a quotation before it completes.
	ErrNotReady = errors.New("quotation not ready")
)
