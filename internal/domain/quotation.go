package domain

import (
	"fmt"
	"strings"
	"time"
)

// Quotation is a priced estimate request for one construction project.
// Its status moves along a fixed lifecycle graph and is mutated only
// through the transition methods below.
type Quotation struct {
	ID                 string
	ProjectDescription string
	Location           string
	ZipCode            string
	ProjectType        ProjectType // empty when not provided
	Timeline           string
	Status             QuotationStatus
	Progress           int // 0-100, frozen at its last value on failure
	FailureReason      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// lifecycleEdges is the set of permitted status transitions. Terminal
// states have no outgoing edges.
var lifecycleEdges = map[QuotationStatus][]QuotationStatus{
	StatusPending:         {StatusProcessing},
	StatusProcessing:      {StatusDataCollection, StatusFailed},
	StatusDataCollection:  {StatusCostCalculation, StatusFailed},
	StatusCostCalculation: {StatusCompleted, StatusFailed},
}

// statusProgress maps each status to its fixed progress percentage.
// A failed quotation keeps the progress it had when it failed.
var statusProgress = map[QuotationStatus]int{
	StatusPending:         0,
	StatusProcessing:      10,
	StatusDataCollection:  40,
	StatusCostCalculation: 70,
	StatusCompleted:       100,
}

// CanTransition reports whether to is a permitted next status.
func (q *Quotation) CanTransition(to QuotationStatus) bool {
	for _, next := range lifecycleEdges[q.Status] {
		if next == to {
			return true
		}
	}
	return false
}

func (q *Quotation) transition(to QuotationStatus, now time.Time) error {
	if !q.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, to)
	}
	q.Status = to
	if pct, ok := statusProgress[to]; ok {
		q.Progress = pct
	}
	q.UpdatedAt = now
	return nil
}

// BeginProcessing moves the quotation from pending to processing.
func (q *Quotation) BeginProcessing(now time.Time) error {
	return q.transition(StatusProcessing, now)
}

// MarkDataCollection records that the extraction stage has produced its
// output. Only valid while the quotation is processing.
func (q *Quotation) MarkDataCollection(now time.Time) error {
	return q.transition(StatusDataCollection, now)
}

// MarkCostCalculation records that the pricing stage has started writing
// its output. Only valid from data_collection.
func (q *Quotation) MarkCostCalculation(now time.Time) error {
	return q.transition(StatusCostCalculation, now)
}

// Complete moves the quotation to its successful terminal state.
func (q *Quotation) Complete(now time.Time) error {
	return q.transition(StatusCompleted, now)
}

// Fail moves the quotation to the failed terminal state, recording the
// reason. Progress stays frozen at its last value. Calling Fail on an
// already-failed quotation is a no-op, preserving the original reason.
func (q *Quotation) Fail(reason string, now time.Time) error {
	if q.Status == StatusFailed {
		return nil
	}
	if q.Status.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, StatusFailed)
	}
	q.Status = StatusFailed
	q.FailureReason = reason
	q.UpdatedAt = now
	return nil
}

// CurrentStage names the pipeline stage implied by the status, for
// status polling clients.
func (q *Quotation) CurrentStage() string {
	switch q.Status {
	case StatusProcessing:
		return "initializing"
	case StatusDataCollection:
		return "data_collection"
	case StatusCostCalculation:
		return "cost_calculation"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// Validate checks the quotation's client-supplied fields. It returns an
// error wrapping ErrValidation on the first violation found.
func (q *Quotation) Validate() error {
	if err := ValidateDescription(q.ProjectDescription); err != nil {
		return err
	}
	if err := ValidateZipCode(q.ZipCode); err != nil {
		return err
	}
	if q.ProjectType != "" && !ValidProjectTypes[q.ProjectType] {
		return fmt.Errorf("%w: project type must be one of residential, commercial, renovation, new_construction", ErrValidation)
	}
	return nil
}

// ValidateDescription enforces the minimum length of a project
// description: at least 10 characters and 10 words.
func ValidateDescription(description string) error {
	if len(strings.TrimSpace(description)) < 10 {
		return fmt.Errorf("%w: project description must be at least 10 characters", ErrValidation)
	}
	if len(strings.Fields(description)) < 10 {
		return fmt.Errorf("%w: project description must contain at least 10 words", ErrValidation)
	}
	return nil
}

// ValidateZipCode accepts an empty zip code, or one carrying exactly
// 5 or 9 digits once separators are stripped.
func ValidateZipCode(zip string) error {
	if zip == "" {
		return nil
	}
	digits := 0
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits != 5 && digits != 9 {
		return fmt.Errorf("%w: zip code must contain 5 or 9 digits", ErrValidation)
	}
	return nil
}
