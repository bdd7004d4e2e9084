package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/google/uuid"
)

// DefaultDescription satisfies the 10-character / 10-word validation
// floor and carries enough signal for keyword extraction.
const DefaultDescription = "2000 sq ft office renovation in downtown Chicago, modern finishes, 8-week timeline"

// Quotation options
type QuotationOption func(*domain.Quotation)

func WithLocation(location string) QuotationOption {
	return func(q *domain.Quotation) {
		q.Location = location
	}
}

func WithZipCode(zip string) QuotationOption {
	return func(q *domain.Quotation) {
		q.ZipCode = zip
	}
}

func WithProjectType(t domain.ProjectType) QuotationOption {
	return func(q *domain.Quotation) {
		q.ProjectType = t
	}
}

func WithTimeline(timeline string) QuotationOption {
	return func(q *domain.Quotation) {
		q.Timeline = timeline
	}
}

func WithStatus(s domain.QuotationStatus) QuotationOption {
	return func(q *domain.Quotation) {
		q.Status = s
	}
}

// NewTestQuotation builds a pending quotation with a valid description.
func NewTestQuotation(opts ...QuotationOption) *domain.Quotation {
	now := time.Now().UTC()
	q := &domain.Quotation{
		ID:                 NewQuotationID(),
		ProjectDescription: DefaultDescription,
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// NewTestSession builds an empty session.
func NewTestSession() *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        NewSessionID(),
		History:   []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestExtractedData builds a plausible extraction stage output.
func NewTestExtractedData() *domain.ExtractedData {
	size := 185.8
	weeks := 8
	return &domain.ExtractedData{
		ProjectType:     string(domain.TypeCommercial),
		SizeSqm:         &size,
		TimelineWeeks:   &weeks,
		KeyRequirements: []string{"modern finishes"},
		ConfidenceScore: 0.85,
	}
}

// NewTestCostBreakdown builds a breakdown whose percentages sum to 100.
func NewTestCostBreakdown() *domain.CostBreakdown {
	return &domain.CostBreakdown{
		Currency:       "EGP",
		Materials:      domain.CostCategory{Subtotal: 500000, Percentage: 50},
		Labor:          domain.CostCategory{Subtotal: 300000, Percentage: 30},
		PermitsAndFees: domain.CostCategory{Subtotal: 40000, Percentage: 4},
		Contingency:    domain.CostCategory{Subtotal: 80000, Percentage: 8},
		Markup:         domain.CostCategory{Subtotal: 80000, Percentage: 8},
	}
}

// NewQuotationID generates an id in the quot-<12 hex> wire format.
func NewQuotationID() string {
	return fmt.Sprintf("quot-%s", hex12())
}

// NewSessionID generates an id in the session-<12 hex> wire format.
func NewSessionID() string {
	return fmt.Sprintf("session-%s", hex12())
}

func hex12() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
