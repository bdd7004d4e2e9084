package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuotation(status QuotationStatus) *Quotation {
	q := &Quotation{
		ID:                 "quot-abc123def456",
		ProjectDescription: "2000 sq ft office renovation in downtown Chicago with modern finishes please",
		Status:             status,
	}
	if pct, ok := statusProgress[status]; ok {
		q.Progress = pct
	}
	return q
}

func TestQuotation_LifecycleEdges(t *testing.T) {
	all := []QuotationStatus{
		StatusPending, StatusProcessing, StatusDataCollection,
		StatusCostCalculation, StatusCompleted, StatusFailed,
	}
	allowed := map[QuotationStatus]map[QuotationStatus]bool{
		StatusPending:         {StatusProcessing: true},
		StatusProcessing:      {StatusDataCollection: true, StatusFailed: true},
		StatusDataCollection:  {StatusCostCalculation: true, StatusFailed: true},
		StatusCostCalculation: {StatusCompleted: true, StatusFailed: true},
	}

	for _, from := range all {
		for _, to := range all {
			q := newTestQuotation(from)
			got := q.CanTransition(to)
			want := allowed[from][to]
			assert.Equal(t, want, got, "edge %s -> %s", from, to)
		}
	}
}

func TestQuotation_NoSkippedTransitions(t *testing.T) {
	now := time.Now().UTC()

	q := newTestQuotation(StatusPending)
	err := q.Complete(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, q.Status, "failed transition must not mutate status")

	err = q.MarkCostCalculation(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestQuotation_FullLifecycle(t *testing.T) {
	now := time.Now().UTC()
	q := newTestQuotation(StatusPending)

	require.NoError(t, q.BeginProcessing(now))
	assert.Equal(t, 10, q.Progress)

	require.NoError(t, q.MarkDataCollection(now))
	assert.Equal(t, 40, q.Progress)

	require.NoError(t, q.MarkCostCalculation(now))
	assert.Equal(t, 70, q.Progress)

	require.NoError(t, q.Complete(now))
	assert.Equal(t, StatusCompleted, q.Status)
	assert.Equal(t, 100, q.Progress)

	err := q.BeginProcessing(now)
	assert.ErrorIs(t, err, ErrInvalidTransition, "terminal state must reject transitions")
}

func TestQuotation_ProgressMonotonic(t *testing.T) {
	now := time.Now().UTC()
	q := newTestQuotation(StatusPending)

	last := q.Progress
	steps := []func(time.Time) error{
		q.BeginProcessing, q.MarkDataCollection, q.MarkCostCalculation, q.Complete,
	}
	for _, step := range steps {
		require.NoError(t, step(now))
		assert.GreaterOrEqual(t, q.Progress, last)
		last = q.Progress
	}
}

func TestQuotation_FailFreezesProgress(t *testing.T) {
	now := time.Now().UTC()
	q := newTestQuotation(StatusPending)
	require.NoError(t, q.BeginProcessing(now))
	require.NoError(t, q.MarkDataCollection(now))

	require.NoError(t, q.Fail("pricing backend unreachable", now))
	assert.Equal(t, StatusFailed, q.Status)
	assert.Equal(t, 40, q.Progress, "progress frozen at last value")
	assert.Equal(t, "pricing backend unreachable", q.FailureReason)
}

func TestQuotation_FailIdempotent(t *testing.T) {
	now := time.Now().UTC()
	q := newTestQuotation(StatusProcessing)

	require.NoError(t, q.Fail("first reason", now))
	require.NoError(t, q.Fail("second reason", now.Add(time.Second)))

	assert.Equal(t, StatusFailed, q.Status)
	assert.Equal(t, "first reason", q.FailureReason, "repeat Fail keeps original reason")
}

func TestQuotation_FailFromCompletedRejected(t *testing.T) {
	now := time.Now().UTC()
	q := newTestQuotation(StatusCompleted)
	err := q.Fail("too late", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestQuotation_Validate(t *testing.T) {
	valid := "Full renovation of a two bedroom apartment with new kitchen and bathroom fittings"

	tests := []struct {
		name        string
		description string
		zip         string
		projectType ProjectType
		wantErr     bool
	}{
		{"valid", valid, "60601", TypeCommercial, false},
		{"valid no optionals", valid, "", "", false},
		{"empty description", "", "", "", true},
		{"short description", "fix my roof", "", "", true},
		{"too few words", "renovate-the-whole-apartment-now", "", "", true},
		{"bad zip", valid, "1234", "", true},
		{"nine digit zip", valid, "60601-1234", "", false},
		{"bad project type", valid, "", ProjectType("industrial"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Quotation{
				ProjectDescription: tt.description,
				ZipCode:            tt.zip,
				ProjectType:        tt.projectType,
			}
			err := q.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuotation_CurrentStage(t *testing.T) {
	assert.Equal(t, "", newTestQuotation(StatusPending).CurrentStage())
	assert.Equal(t, "initializing", newTestQuotation(StatusProcessing).CurrentStage())
	assert.Equal(t, "data_collection", newTestQuotation(StatusDataCollection).CurrentStage())
	assert.Equal(t, "cost_calculation", newTestQuotation(StatusCostCalculation).CurrentStage())
	assert.Equal(t, "completed", newTestQuotation(StatusCompleted).CurrentStage())
	assert.Equal(t, "failed", newTestQuotation(StatusFailed).CurrentStage())
}

func TestSession_AppendAndNormalize(t *testing.T) {
	now := time.Now().UTC()
	s := &Session{ID: "session-abc123def456"}

	require.NoError(t, s.Append(RoleUser, "hello", now))
	require.NoError(t, s.Append(RoleAssistant, "hi there", now))
	err := s.Append(MessageRole("system"), "nope", now)
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, s.History, 2)

	normalized := NormalizeHistory([]Message{
		{Role: RoleUser, Content: "a"},
		{Role: MessageRole("tool"), Content: "b"},
		{Role: RoleAssistant, Content: "c"},
	})
	require.Len(t, normalized, 2)
	assert.Equal(t, "a", normalized[0].Content)
	assert.Equal(t, "c", normalized[1].Content)
}

func TestCostBreakdown_PercentageTotal(t *testing.T) {
	b := &CostBreakdown{
		Currency:       "EGP",
		Materials:      CostCategory{Subtotal: 500, Percentage: 50},
		Labor:          CostCategory{Subtotal: 300, Percentage: 30},
		PermitsAndFees: CostCategory{Subtotal: 40, Percentage: 4},
		Contingency:    CostCategory{Subtotal: 80, Percentage: 8},
		Markup:         CostCategory{Subtotal: 80, Percentage: 8},
	}
	assert.InDelta(t, 100, b.PercentageTotal(), 0.01)
}

func TestValidateDescription_WordBoundaries(t *testing.T) {
	tenWords := strings.Repeat("word ", 10)
	assert.NoError(t, ValidateDescription(tenWords))
	nineWords := strings.Repeat("word ", 9)
	assert.Error(t, ValidateDescription(nineWords))
}
