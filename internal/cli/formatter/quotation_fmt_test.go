package formatter

import (
	"testing"
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/stretchr/testify/assert"
)

func sampleQuotation() *domain.Quotation {
	now := time.Now()
	return &domain.Quotation{
		ID:                 "quot-abc123def456",
		ProjectDescription: "100 sqm apartment renovation in Cairo with premium finishes",
		Location:           "Cairo",
		ProjectType:        domain.TypeRenovation,
		Timeline:           "10 weeks",
		Status:             domain.StatusCompleted,
		Progress:           100,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func sampleBreakdown() *domain.CostBreakdown {
	return &domain.CostBreakdown{
		Currency:       "EGP",
		Materials:      domain.CostCategory{Subtotal: 300000, Percentage: 60.7},
		Labor:          domain.CostCategory{Subtotal: 108571.43, Percentage: 22.0},
		PermitsAndFees: domain.CostCategory{Subtotal: 3000, Percentage: 0.6},
		Contingency:    domain.CostCategory{Subtotal: 41157.14, Percentage: 8.3},
		Markup:         domain.CostCategory{Subtotal: 41157.14, Percentage: 8.3},
	}
}

func TestFormatQuotationList_ShowsStatusAndTruncatedDescription(t *testing.T) {
	q := sampleQuotation()
	out := FormatQuotationList([]*domain.Quotation{q})

	assert.Contains(t, out, "quot-abc123d")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "Renovation")
	// 40-rune cap plus ellipsis.
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "premium finishes")
}

func TestFormatStatus_RunningShowsETAAndStageTrack(t *testing.T) {
	eta := time.Now().Add(90 * time.Second)
	st := &service.StatusProjection{
		QuotationID:         "quot-abc123def456",
		Status:              domain.StatusDataCollection,
		CurrentStage:        "data_collection",
		Progress:            40,
		EstimatedCompletion: &eta,
		LastUpdate:          time.Now(),
	}

	out := FormatStatus(st)
	assert.Contains(t, out, "quot-abc123def456")
	assert.Contains(t, out, "Collecting Data")
	assert.Contains(t, out, "Estimated completion in")
	assert.Contains(t, out, "data_collection")
}

func TestFormatStatus_FailedShowsReasonWithoutETA(t *testing.T) {
	st := &service.StatusProjection{
		QuotationID:   "quot-abc123def456",
		Status:        domain.StatusFailed,
		CurrentStage:  "failed",
		Progress:      40,
		FailureReason: "extraction stage retries exhausted",
		LastUpdate:    time.Now(),
	}

	out := FormatStatus(st)
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "extraction stage retries exhausted")
	assert.NotContains(t, out, "Estimated completion")
}

func TestFormatQuotation_IncludesExtractionAndBreakdown(t *testing.T) {
	size := 100.0
	weeks := 10
	view := &service.QuotationView{
		Quotation: sampleQuotation(),
		Data: &domain.QuotationData{
			QuotationID: "quot-abc123def456",
			ExtractedData: &domain.ExtractedData{
				ProjectType:       "renovation",
				SizeSqm:           &size,
				TimelineWeeks:     &weeks,
				TargetFinishLevel: "premium",
				KeyRequirements:   []string{"premium finishes"},
				FollowUpQuestions: []string{"Is the unit occupied during the works?"},
				ConfidenceScore:   0.9,
			},
			CostBreakdown: sampleBreakdown(),
			TotalCost:     493885.71,
		},
	}

	out := FormatQuotation(view)
	assert.Contains(t, out, "EXTRACTED SCOPE")
	assert.Contains(t, out, "100 sqm")
	assert.Contains(t, out, "10 weeks")
	assert.Contains(t, out, "Is the unit occupied during the works?")
	assert.Contains(t, out, "COST BREAKDOWN")
	assert.Contains(t, out, "permits and fees")
	assert.Contains(t, out, "493,885.71 EGP")
}

func TestFormatQuotation_PendingHasNoBreakdownSection(t *testing.T) {
	q := sampleQuotation()
	q.Status = domain.StatusPending
	q.Progress = 0

	out := FormatQuotation(&service.QuotationView{Quotation: q})
	assert.Contains(t, out, "Pending")
	assert.NotContains(t, out, "COST BREAKDOWN")
}

func TestFormatBreakdown_TableListsEveryCategory(t *testing.T) {
	out := FormatBreakdown(sampleBreakdown(), 493885.71)

	for _, label := range []string{"materials", "labor", "permits and fees", "contingency", "markup"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "300,000.00 EGP")
	assert.Contains(t, out, "60.7%")
	assert.Contains(t, out, "Total:")
}
