// Package pipeline drives a quotation through its processing stages in
// the background. The orchestrator owns stage sequencing, transient
// retries, and terminal bookkeeping; all state changes go through the
// Recorder so persistence and serialization live in one place.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/stage"
)

// Recorder persists pipeline progress. Implementations must serialize
// mutations per quotation id.
type Recorder interface {
	// BeginRun moves a pending quotation to processing.
	BeginRun(ctx context.Context, id string) (*domain.Quotation, error)
	// MarkStage advances the quotation to the given stage status.
	MarkStage(ctx context.Context, id string, status domain.QuotationStatus) error
	// RecordExtraction stores the extraction output.
	RecordExtraction(ctx context.Context, id string, res *stage.ExtractionResult) error
	// RecordPricing stores the pricing output.
	RecordPricing(ctx context.Context, id string, res *stage.PricingResult) error
	// Complete marks the quotation completed.
	Complete(ctx context.Context, id string) error
	// MarkFailed marks the quotation failed with a reason.
	MarkFailed(ctx context.Context, id string, reason string) error
}

// Options tune retry behavior and the overall run deadline.
type Options struct {
	MaxAttempts int           // per stage, including the first try
	Backoff     time.Duration // base delay, grows linearly per attempt
	RunTimeout  time.Duration
}

func defaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
		RunTimeout:  5 * time.Minute,
	}
}

// Orchestrator runs quotation pipelines in detached goroutines. At
// most one run per quotation id is active at a time; Trigger on a
// quotation already in flight is a no-op.
type Orchestrator struct {
	rec        Recorder
	extraction stage.ExtractionStage
	pricing    stage.PricingStage
	opts       Options
	log        *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

func NewOrchestrator(rec Recorder, ex stage.ExtractionStage, pr stage.PricingStage, opts *Options, log *slog.Logger) *Orchestrator {
	o := defaultOptions()
	if opts != nil {
		if opts.MaxAttempts > 0 {
			o.MaxAttempts = opts.MaxAttempts
		}
		if opts.Backoff > 0 {
			o.Backoff = opts.Backoff
		}
		if opts.RunTimeout > 0 {
			o.RunTimeout = opts.RunTimeout
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		rec:        rec,
		extraction: ex,
		pricing:    pr,
		opts:       o,
		log:        log,
		inFlight:   make(map[string]struct{}),
	}
}

// Trigger starts the pipeline for id in the background and returns
// immediately. The run is detached from the caller's context; clients
// disconnecting mid-stream must not abort processing. Returns false if
// a run for id is already active.
func (o *Orchestrator) Trigger(id string) bool {
	o.mu.Lock()
	if _, active := o.inFlight[id]; active {
		o.mu.Unlock()
		return false
	}
	o.inFlight[id] = struct{}{}
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			o.mu.Lock()
			delete(o.inFlight, id)
			o.mu.Unlock()
		}()
		o.run(id)
	}()
	return true
}

// Wait blocks until all in-flight runs finish. Used on shutdown and in
// tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Active reports whether a run for id is currently in flight.
func (o *Orchestrator) Active(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.inFlight[id]
	return ok
}

func (o *Orchestrator) run(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.opts.RunTimeout)
	defer cancel()

	log := o.log.With("quotation_id", id)

	q, err := o.rec.BeginRun(ctx, id)
	if err != nil {
		log.Error("pipeline could not start", "error", err)
		return
	}
	log.Info("pipeline started")

	extracted, err := o.runExtraction(ctx, q)
	if err != nil {
		o.fail(ctx, id, err)
		return
	}
	if err := o.runPricing(ctx, q, extracted); err != nil {
		o.fail(ctx, id, err)
		return
	}

	if err := o.rec.Complete(ctx, id); err != nil {
		log.Error("could not mark quotation completed", "error", err)
		return
	}
	log.Info("pipeline completed")
}

func (o *Orchestrator) runExtraction(ctx context.Context, q *domain.Quotation) (*stage.ExtractionResult, error) {
	if err := o.rec.MarkStage(ctx, q.ID, domain.StatusDataCollection); err != nil {
		return nil, err
	}

	var res *stage.ExtractionResult
	err := o.withRetry(ctx, q.ID, stage.NameExtraction, func(ctx context.Context) error {
		var serr error
		res, serr = o.extraction.Run(ctx, stage.ExtractionInput{
			Description: q.ProjectDescription,
			Location:    q.Location,
			ZipCode:     q.ZipCode,
			ProjectType: q.ProjectType,
			Timeline:    q.Timeline,
		})
		return serr
	})
	if err != nil {
		return nil, err
	}
	if err := o.rec.RecordExtraction(ctx, q.ID, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) runPricing(ctx context.Context, q *domain.Quotation, extracted *stage.ExtractionResult) error {
	if err := o.rec.MarkStage(ctx, q.ID, domain.StatusCostCalculation); err != nil {
		return err
	}

	var res *stage.PricingResult
	err := o.withRetry(ctx, q.ID, stage.NamePricing, func(ctx context.Context) error {
		var serr error
		res, serr = o.pricing.Run(ctx, stage.PricingInput{
			Extracted:   extracted.Extracted,
			Location:    q.Location,
			ZipCode:     q.ZipCode,
			ProjectType: q.ProjectType,
		})
		return serr
	})
	if err != nil {
		return err
	}
	return o.rec.RecordPricing(ctx, q.ID, res)
}

// withRetry runs fn, retrying transient stage failures with a linear
// backoff. Permanent failures and exhausted budgets return the last
// error.
func (o *Orchestrator) withRetry(ctx context.Context, id, name string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !stage.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == o.opts.MaxAttempts {
			break
		}

		delay := o.opts.Backoff * time.Duration(attempt)
		o.log.Warn("stage failed, retrying",
			"quotation_id", id, "stage", name,
			"attempt", attempt, "delay", delay, "error", lastErr)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s stage aborted: %w", name, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s stage retries exhausted: %w", name, lastErr)
}

func (o *Orchestrator) fail(ctx context.Context, id string, cause error) {
	o.log.Error("pipeline failed", "quotation_id", id, "error", cause)
	if err := o.rec.MarkFailed(ctx, id, cause.Error()); err != nil {
		o.log.Error("could not mark quotation failed", "quotation_id", id, "error", err)
	}
}
