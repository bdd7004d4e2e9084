package repository

import (
	"context"
	"errors"

	"github.com/avelarbuild/quotient/internal/domain"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

type QuotationRepo interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error)
	Update(ctx context.Context, q *domain.Quotation) error
	Delete(ctx context.Context, id string) error
}

type QuotationDataRepo interface {
	Upsert(ctx context.Context, d *domain.QuotationData) error
	GetByQuotationID(ctx context.Context, quotationID string) (*domain.QuotationData, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}
