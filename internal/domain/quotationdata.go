package domain

import "time"

// QuotationData holds the stage outputs for one quotation. It is created
// empty when the pipeline starts and filled in as each stage completes.
type QuotationData struct {
	QuotationID     string
	ExtractedData   *ExtractedData
	ConfidenceScore float64
	CostBreakdown   *CostBreakdown
	TotalCost       float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExtractedData is the structured output of the extraction stage.
type ExtractedData struct {
	ProjectType        string   `json:"project_type"`
	SizeSqm            *float64 `json:"size_sqm,omitempty"`
	CurrentFinishLevel string   `json:"current_finish_level,omitempty"`
	TargetFinishLevel  string   `json:"target_finish_level,omitempty"`
	TimelineWeeks      *int     `json:"timeline_weeks,omitempty"`
	KeyRequirements    []string `json:"key_requirements,omitempty"`
	MissingInformation []string `json:"missing_information,omitempty"`
	FollowUpQuestions  []string `json:"follow_up_questions,omitempty"`
	ConfidenceScore    float64  `json:"confidence_score"`
}

// CostItem is one priced material line.
type CostItem struct {
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unit_cost"`
}

// TradeCost is one labor trade's share of the work.
type TradeCost struct {
	Trade string  `json:"trade"`
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
	Cost  float64 `json:"cost"`
}

// CostCategory is one top-level slice of the quotation total.
type CostCategory struct {
	Subtotal   float64     `json:"subtotal"`
	Percentage float64     `json:"percentage"`
	Items      []CostItem  `json:"items,omitempty"`
	Trades     []TradeCost `json:"trades,omitempty"`
}

// CostBreakdown is the structured output of the pricing stage.
type CostBreakdown struct {
	Currency       string       `json:"currency"`
	Materials      CostCategory `json:"materials"`
	Labor          CostCategory `json:"labor"`
	PermitsAndFees CostCategory `json:"permits_and_fees"`
	Contingency    CostCategory `json:"contingency"`
	Markup         CostCategory `json:"markup"`
}

// Categories returns the breakdown's named categories in display order.
func (b *CostBreakdown) Categories() []struct {
	Name     string
	Category CostCategory
} {
	return []struct {
		Name     string
		Category CostCategory
	}{
		{"materials", b.Materials},
		{"labor", b.Labor},
		{"permits_and_fees", b.PermitsAndFees},
		{"contingency", b.Contingency},
		{"markup", b.Markup},
	}
}

// PercentageTotal sums the category percentages. It should come to 100
// up to rounding of the individual shares.
func (b *CostBreakdown) PercentageTotal() float64 {
	total := 0.0
	for _, c := range b.Categories() {
		total += c.Category.Percentage
	}
	return total
}
