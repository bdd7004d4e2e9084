package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/repository"
	"github.com/avelarbuild/quotient/internal/stage"
)

// Advisory completion estimate offered to polling clients while the
// pipeline is active.
const processingETA = 2 * time.Minute

// idLocks serializes mutations per quotation id. Reads never take
// these locks.
type idLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newIDLocks() *idLocks {
	return &idLocks{m: make(map[string]*sync.Mutex)}
}

func (l *idLocks) lock(id string) func() {
	l.mu.Lock()
	lk, ok := l.m[id]
	if !ok {
		lk = &sync.Mutex{}
		l.m[id] = lk
	}
	l.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}

type quotationService struct {
	quotations repository.QuotationRepo
	data       repository.QuotationDataRepo
	uow        db.UnitOfWork
	locks      *idLocks
	observer   UseCaseObserver
}

// NewQuotationService builds the quotation service. The returned value
// also implements pipeline.Recorder.
func NewQuotationService(
	quotations repository.QuotationRepo,
	data repository.QuotationDataRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) QuotationService {
	return &quotationService{
		quotations: quotations,
		data:       data,
		uow:        uow,
		locks:      newIDLocks(),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *quotationService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

func (s *quotationService) Create(ctx context.Context, req CreateQuotationRequest) (q *domain.Quotation, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{}
		if q != nil {
			fields["quotation_id"] = q.ID
		}
		s.observe(ctx, "quotation.create", start, err, fields)
	}()

	now := time.Now().UTC()
	q = &domain.Quotation{
		ID:                 NewQuotationID(),
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
		Location:           strings.TrimSpace(req.Location),
		ZipCode:            strings.TrimSpace(req.ZipCode),
		ProjectType:        domain.ProjectType(req.ProjectType),
		Timeline:           strings.TrimSpace(req.Timeline),
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err = q.Validate(); err != nil {
		q = nil
		return nil, err
	}
	if err = s.quotations.Create(ctx, q); err != nil {
		q = nil
		return nil, fmt.Errorf("creating quotation: %w", err)
	}
	return q, nil
}

func (s *quotationService) Get(ctx context.Context, id string, includeData bool) (*QuotationView, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &QuotationView{Quotation: q}
	if !includeData {
		return view, nil
	}

	d, err := s.data.GetByQuotationID(ctx, id)
	switch {
	case err == nil:
		view.Data = d
	case errorsIsNotFound(err):
		// No stage output yet; the view just has no data.
	default:
		return nil, err
	}
	return view, nil
}

func (s *quotationService) List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error) {
	return s.quotations.List(ctx, limit, offset)
}

// GetStatus is a pure read: polling twice in a row yields the same
// projection unless the pipeline moved in between.
func (s *quotationService) GetStatus(ctx context.Context, id string) (*StatusProjection, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &StatusProjection{
		QuotationID:   q.ID,
		Status:        q.Status,
		CurrentStage:  q.CurrentStage(),
		Progress:      q.Progress,
		FailureReason: q.FailureReason,
		LastUpdate:    q.UpdatedAt,
	}
	if !q.Status.Terminal() {
		eta := time.Now().UTC().Add(processingETA)
		p.EstimatedCompletion = &eta
	}
	return p, nil
}

func (s *quotationService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()
	return s.quotations.Delete(ctx, id)
}

// pipeline.Recorder implementation. Every mutation takes the per-id
// lock, re-reads current state, applies the domain transition, and
// persists inside one transaction.

func (s *quotationService) BeginRun(ctx context.Context, id string) (*domain.Quotation, error) {
	var out *domain.Quotation
	err := s.mutate(ctx, id, "pipeline.begin", func(q *domain.Quotation, now time.Time) error {
		if err := q.BeginProcessing(now); err != nil {
			return err
		}
		out = q
		return nil
	})
	return out, err
}

func (s *quotationService) MarkStage(ctx context.Context, id string, status domain.QuotationStatus) error {
	return s.mutate(ctx, id, "pipeline.mark_stage", func(q *domain.Quotation, now time.Time) error {
		switch status {
		case domain.StatusDataCollection:
			return q.MarkDataCollection(now)
		case domain.StatusCostCalculation:
			return q.MarkCostCalculation(now)
		default:
			return fmt.Errorf("%w: %q is not a stage status", domain.ErrInvalidTransition, status)
		}
	})
}

func (s *quotationService) RecordExtraction(ctx context.Context, id string, res *stage.ExtractionResult) (err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "pipeline.record_extraction", start, err, map[string]any{"quotation_id": id})
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txData := repository.NewSQLiteQuotationDataRepo(tx)

		d, err := txData.GetByQuotationID(ctx, id)
		if errorsIsNotFound(err) {
			d = &domain.QuotationData{QuotationID: id, CreatedAt: time.Now().UTC()}
		} else if err != nil {
			return err
		}

		d.ExtractedData = res.Extracted
		d.ConfidenceScore = res.Confidence
		d.UpdatedAt = time.Now().UTC()
		return txData.Upsert(ctx, d)
	})
}

func (s *quotationService) RecordPricing(ctx context.Context, id string, res *stage.PricingResult) (err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "pipeline.record_pricing", start, err, map[string]any{"quotation_id": id})
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txData := repository.NewSQLiteQuotationDataRepo(tx)

		d, err := txData.GetByQuotationID(ctx, id)
		if errorsIsNotFound(err) {
			d = &domain.QuotationData{QuotationID: id, CreatedAt: time.Now().UTC()}
		} else if err != nil {
			return err
		}

		d.CostBreakdown = res.Breakdown
		d.TotalCost = res.TotalCost
		d.UpdatedAt = time.Now().UTC()
		return txData.Upsert(ctx, d)
	})
}

func (s *quotationService) Complete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, "pipeline.complete", func(q *domain.Quotation, now time.Time) error {
		return q.Complete(now)
	})
}

func (s *quotationService) MarkFailed(ctx context.Context, id string, reason string) error {
	return s.mutate(ctx, id, "pipeline.mark_failed", func(q *domain.Quotation, now time.Time) error {
		return q.Fail(reason, now)
	})
}

// mutate applies fn to the current quotation under the per-id lock and
// persists the result in one transaction.
func (s *quotationService) mutate(ctx context.Context, id, useCase string, fn func(q *domain.Quotation, now time.Time) error) (err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, useCase, start, err, map[string]any{"quotation_id": id})
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txQuotations := repository.NewSQLiteQuotationRepo(tx)

		q, err := txQuotations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(q, time.Now().UTC()); err != nil {
			return err
		}
		return txQuotations.Update(ctx, q)
	})
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// NewQuotationID generates a quotation id in the quot-<12 hex> format.
func NewQuotationID() string {
	return "quot-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// NewSessionID generates a session id in the session-<12 hex> format.
func NewSessionID() string {
	return "session-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
