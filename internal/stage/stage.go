package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelarbuild/quotient/internal/domain"
)

// ErrorKind classifies a stage failure for the orchestrator's retry
// policy.
type ErrorKind string

const (
	// Transient failures (backend timeout, connection refused) may be
	// retried with backoff.
	Transient ErrorKind = "transient"
	// Permanent failures escalate immediately.
	Permanent ErrorKind = "permanent"
)

// Error is a typed stage failure.
type Error struct {
	Stage  string
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s stage failed (%s): %s", e.Stage, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTransient builds a retryable stage error.
func NewTransient(stage, detail string, err error) *Error {
	return &Error{Stage: stage, Kind: Transient, Detail: detail, Err: err}
}

// NewPermanent builds a non-retryable stage error.
func NewPermanent(stage, detail string, err error) *Error {
	return &Error{Stage: stage, Kind: Permanent, Detail: detail, Err: err}
}

// IsTransient reports whether err is a stage error that may be retried.
func IsTransient(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == Transient
}

// ExtractionInput carries everything the extraction stage may consult:
// the project text, client-provided fields, any attachment text, and
// the conversation so far.
type ExtractionInput struct {
	Description    string
	Location       string
	ZipCode        string
	ProjectType    domain.ProjectType
	Timeline       string
	AttachmentText string
	History        []domain.Message
}

// ExtractionResult is the extraction stage's output.
type ExtractionResult struct {
	Extracted  *domain.ExtractedData
	Confidence float64
}

// PricingInput carries the extraction output plus the location fields
// needed for regional pricing.
type PricingInput struct {
	Extracted   *domain.ExtractedData
	Location    string
	ZipCode     string
	ProjectType domain.ProjectType
}

// PricingResult is the pricing stage's output.
type PricingResult struct {
	Breakdown *domain.CostBreakdown
	TotalCost float64
}

// ExtractionStage turns a free-text project description into structured
// project parameters. Implementations must not mutate pipeline state;
// the orchestrator records all results.
type ExtractionStage interface {
	Run(ctx context.Context, in ExtractionInput) (*ExtractionResult, error)
}

// PricingStage turns extracted parameters into a cost breakdown.
// Same purity contract as ExtractionStage.
type PricingStage interface {
	Run(ctx context.Context, in PricingInput) (*PricingResult, error)
}
