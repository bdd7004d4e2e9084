package api

import (
	"time"

	"github.com/avelarbuild/quotient/internal/domain"
)

// quotationResponse is the wire shape of a quotation. Stage outputs
// are attached only when the caller asked for them.
type quotationResponse struct {
	ID                 string                `json:"id"`
	ProjectDescription string                `json:"project_description"`
	Location           string                `json:"location,omitempty"`
	ZipCode            string                `json:"zip_code,omitempty"`
	ProjectType        string                `json:"project_type,omitempty"`
	Timeline           string                `json:"timeline,omitempty"`
	Status             string                `json:"status"`
	Progress           int                   `json:"progress"`
	FailureReason      string                `json:"failure_reason,omitempty"`
	CreatedAt          string                `json:"created_at"`
	UpdatedAt          string                `json:"updated_at"`
	Data               *quotationDataPayload `json:"data,omitempty"`
}

type quotationDataPayload struct {
	ExtractedData   *domain.ExtractedData `json:"extracted_data,omitempty"`
	ConfidenceScore float64               `json:"confidence_score"`
	CostBreakdown   *domain.CostBreakdown `json:"cost_breakdown,omitempty"`
	TotalCost       float64               `json:"total_cost"`
}

type statusResponse struct {
	QuotationID         string  `json:"quotation_id"`
	Status              string  `json:"status"`
	CurrentStage        string  `json:"current_stage"`
	Progress            int     `json:"progress"`
	EstimatedCompletion *string `json:"estimated_completion,omitempty"`
	FailureReason       string  `json:"failure_reason,omitempty"`
	LastUpdate          string  `json:"last_update"`
}

func quotationToResponse(q *domain.Quotation, d *domain.QuotationData) *quotationResponse {
	resp := &quotationResponse{
		ID:                 q.ID,
		ProjectDescription: q.ProjectDescription,
		Location:           q.Location,
		ZipCode:            q.ZipCode,
		ProjectType:        string(q.ProjectType),
		Timeline:           q.Timeline,
		Status:             string(q.Status),
		Progress:           q.Progress,
		FailureReason:      q.FailureReason,
		CreatedAt:          q.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          q.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d != nil {
		resp.Data = &quotationDataPayload{
			ExtractedData:   d.ExtractedData,
			ConfidenceScore: d.ConfidenceScore,
			CostBreakdown:   d.CostBreakdown,
			TotalCost:       d.TotalCost,
		}
	}
	return resp
}
