package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
)

const (
	NameExtraction = "extraction"
	NamePricing    = "pricing"
)

// Square feet to square meters.
const sqftToSqm = 0.092903

// Bounds on model-reported extraction output.
const (
	maxSizeSqm           = 10000
	maxListItems         = 10
	maxFollowUpQuestions = 3
)

// Extractor implements ExtractionStage on top of the LLM client, with a
// pattern-based fallback when the model output is unusable or the
// backend is disabled.
type Extractor struct {
	client llm.LLMClient
	cfg    llm.LLMConfig
	log    *slog.Logger
}

func NewExtractor(client llm.LLMClient, cfg llm.LLMConfig, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{client: client, cfg: cfg, log: log}
}

func (e *Extractor) Run(ctx context.Context, in ExtractionInput) (*ExtractionResult, error) {
	if e.cfg.Enabled && e.client != nil {
		resp, err := e.client.Generate(ctx, llm.GenerateRequest{
			Task:         llm.TaskExtract,
			SystemPrompt: extractionSystem,
			UserPrompt:   buildExtractionPrompt(in),
		})
		switch {
		case err == nil:
			data, perr := llm.ExtractJSON[domain.ExtractedData](resp.Text, validateExtracted)
			if perr == nil {
				mergeClientFields(&data, in)
				return &ExtractionResult{Extracted: &data, Confidence: data.ConfidenceScore}, nil
			}
			e.log.Warn("extraction output unusable, using pattern fallback",
				"error", perr)
		case errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrBackendUnavailable):
			return nil, NewTransient(NameExtraction, "reasoning backend unreachable", err)
		default:
			return nil, NewPermanent(NameExtraction, "generation failed", err)
		}
	}

	data := patternExtract(in)
	mergeClientFields(data, in)
	return &ExtractionResult{Extracted: data, Confidence: data.ConfidenceScore}, nil
}

// validateExtracted rejects model output that parses but makes no
// sense as project parameters.
func validateExtracted(d domain.ExtractedData) error {
	if d.ProjectType != "" && !domain.ProjectType(d.ProjectType).Valid() {
		return fmt.Errorf("unknown project type %q", d.ProjectType)
	}
	if d.SizeSqm != nil && (*d.SizeSqm <= 0 || *d.SizeSqm > maxSizeSqm) {
		return fmt.Errorf("size %v outside (0, %d]", *d.SizeSqm, maxSizeSqm)
	}
	if d.TimelineWeeks != nil && *d.TimelineWeeks <= 0 {
		return fmt.Errorf("non-positive timeline %v", *d.TimelineWeeks)
	}
	if len(d.KeyRequirements) > maxListItems {
		return fmt.Errorf("%d key requirements, limit %d", len(d.KeyRequirements), maxListItems)
	}
	if len(d.MissingInformation) > maxListItems {
		return fmt.Errorf("%d missing-information entries, limit %d", len(d.MissingInformation), maxListItems)
	}
	if len(d.FollowUpQuestions) > maxFollowUpQuestions {
		return fmt.Errorf("%d follow-up questions, limit %d", len(d.FollowUpQuestions), maxFollowUpQuestions)
	}
	for _, lvl := range []string{d.CurrentFinishLevel, d.TargetFinishLevel} {
		if lvl != "" && !validFinishLevel(lvl) {
			return fmt.Errorf("unknown finish level %q", lvl)
		}
	}
	if d.ConfidenceScore < 0 || d.ConfidenceScore > 1 {
		return fmt.Errorf("confidence %v out of range", d.ConfidenceScore)
	}
	return nil
}

func validFinishLevel(s string) bool {
	switch s {
	case FinishBasic, FinishStandard, FinishPremium:
		return true
	}
	return false
}

// mergeClientFields lets explicit client-provided fields win over
// whatever the model inferred.
func mergeClientFields(d *domain.ExtractedData, in ExtractionInput) {
	if in.ProjectType != "" {
		d.ProjectType = string(in.ProjectType)
	}
	if d.ConfidenceScore < 0 {
		d.ConfidenceScore = 0
	}
	if d.ConfidenceScore > 1 {
		d.ConfidenceScore = 1
	}
}
