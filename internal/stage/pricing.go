package stage

import (
	"context"
	"log/slog"
	"math"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
)

// Pricer implements PricingStage with deterministic Egypt-market rate
// tables. The only model involvement is classifying the target finish
// level from key requirements when extraction left it blank; that
// classification is advisory and falls back to standard.
type Pricer struct {
	client llm.LLMClient
	cfg    llm.LLMConfig
	log    *slog.Logger
}

func NewPricer(client llm.LLMClient, cfg llm.LLMConfig, log *slog.Logger) *Pricer {
	if log == nil {
		log = slog.Default()
	}
	return &Pricer{client: client, cfg: cfg, log: log}
}

func (p *Pricer) Run(ctx context.Context, in PricingInput) (*PricingResult, error) {
	if in.Extracted == nil {
		return nil, NewPermanent(NamePricing, "no extracted data to price", nil)
	}
	ex := in.Extracted

	sizeSqm := defaultSizeSqm
	if ex.SizeSqm != nil && *ex.SizeSqm > 0 {
		sizeSqm = *ex.SizeSqm
	}

	projectType := ex.ProjectType
	if in.ProjectType != "" {
		projectType = string(in.ProjectType)
	}
	if projectType == "" {
		projectType = string(domain.TypeResidential)
	}

	level := ex.TargetFinishLevel
	if !validFinishLevel(level) {
		level = p.classifyFinishLevel(ctx, ex.KeyRequirements)
	}

	region := detectRegion(in.Location)
	mult := regionalMultipliers[region]

	materials := sizeSqm * materialCostPerSqm[level] * mult

	laborHours := sizeSqm * laborHoursPerSqm(projectType)
	labor := laborHours * averageLaborRate() * mult

	permits := permitFees(projectType)

	subtotal := materials + labor + permits
	contingency := subtotal * contingencyRate
	markup := subtotal * markupRate
	total := subtotal + contingency + markup

	trades := make([]domain.TradeCost, 0, len(tradeShares))
	for _, ts := range tradeShares {
		hours := laborHours * ts.Share
		rate := laborRates[ts.Trade]
		trades = append(trades, domain.TradeCost{
			Trade: ts.Trade,
			Hours: round1(hours),
			Rate:  rate,
			Cost:  round2(hours * rate * mult),
		})
	}

	breakdown := &domain.CostBreakdown{
		Currency: CurrencyEGP,
		Materials: domain.CostCategory{
			Subtotal:   round2(materials),
			Percentage: pct(materials, total),
			Items: []domain.CostItem{{
				Category: "general_materials",
				Cost:     round2(materials),
				Quantity: round2(sizeSqm),
				Unit:     "sqm",
				UnitCost: round2(materialCostPerSqm[level] * mult),
			}},
		},
		Labor: domain.CostCategory{
			Subtotal:   round2(labor),
			Percentage: pct(labor, total),
			Trades:     trades,
		},
		PermitsAndFees: domain.CostCategory{
			Subtotal:   round2(permits),
			Percentage: pct(permits, total),
		},
		Contingency: domain.CostCategory{
			Subtotal:   round2(contingency),
			Percentage: pct(contingency, total),
		},
		Markup: domain.CostCategory{
			Subtotal:   round2(markup),
			Percentage: pct(markup, total),
		},
	}

	return &PricingResult{Breakdown: breakdown, TotalCost: round2(total)}, nil
}

// classifyFinishLevel asks the model to pick a finish level from the
// stated requirements. Any failure yields standard; pricing never
// blocks on this call.
func (p *Pricer) classifyFinishLevel(ctx context.Context, requirements []string) string {
	if !p.cfg.Enabled || p.client == nil || len(requirements) == 0 {
		return FinishStandard
	}

	resp, err := p.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPrice,
		SystemPrompt: finishLevelSystem,
		UserPrompt:   buildFinishLevelPrompt(requirements),
	})
	if err != nil {
		p.log.Warn("finish level classification failed, using standard", "error", err)
		return FinishStandard
	}

	out, err := llm.ExtractJSON[finishLevelAnswer](resp.Text, nil)
	if err != nil || !validFinishLevel(out.TargetFinishLevel) {
		return FinishStandard
	}
	return out.TargetFinishLevel
}

type finishLevelAnswer struct {
	TargetFinishLevel string `json:"target_finish_level"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// pct expresses part as a share of total so the category percentages
// of one breakdown sum to 100 within rounding error.
func pct(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}
