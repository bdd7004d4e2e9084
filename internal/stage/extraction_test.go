package stage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/llm"
	"github.com/avelarbuild/quotient/internal/testutil"
)

func enabledConfig() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	return cfg
}

func TestExtractor_ModelOutputParsed(t *testing.T) {
	client := &testutil.ScriptedLLM{Responses: []string{
		"```json\n" + `{
			"project_type": "renovation",
			"size_sqm": 185.8,
			"target_finish_level": "standard",
			"timeline_weeks": 8,
			"key_requirements": ["modern finishes"],
			"confidence_score": 0.85
		}` + "\n```",
	}}
	ex := NewExtractor(client, enabledConfig(), nil)

	res, err := ex.Run(context.Background(), ExtractionInput{
		Description: testutil.DefaultDescription,
	})
	require.NoError(t, err)

	assert.Equal(t, "renovation", res.Extracted.ProjectType)
	require.NotNil(t, res.Extracted.SizeSqm)
	assert.InDelta(t, 185.8, *res.Extracted.SizeSqm, 0.001)
	require.NotNil(t, res.Extracted.TimelineWeeks)
	assert.Equal(t, 8, *res.Extracted.TimelineWeeks)
	assert.Equal(t, "standard", res.Extracted.TargetFinishLevel)
	assert.InDelta(t, 0.85, res.Confidence, 0.001)
	assert.Equal(t, 1, client.CallCount(llm.TaskExtract))
}

func TestExtractor_UnusableOutputFallsBackToPatterns(t *testing.T) {
	client := &testutil.ScriptedLLM{Responses: []string{
		"Sorry, I cannot help with that.",
	}}
	ex := NewExtractor(client, enabledConfig(), nil)

	res, err := ex.Run(context.Background(), ExtractionInput{
		Description: testutil.DefaultDescription,
	})
	require.NoError(t, err)

	assert.Equal(t, "renovation", res.Extracted.ProjectType)
	require.NotNil(t, res.Extracted.SizeSqm)
	assert.InDelta(t, 2000*sqftToSqm, *res.Extracted.SizeSqm, 0.01)
	require.NotNil(t, res.Extracted.TimelineWeeks)
	assert.Equal(t, 8, *res.Extracted.TimelineWeeks)
	assert.Equal(t, fallbackConfidence, res.Confidence)
}

func TestExtractor_InvalidFieldsRejectedByValidator(t *testing.T) {
	client := &testutil.ScriptedLLM{Responses: []string{
		`{"project_type": "spaceship", "confidence_score": 0.9}`,
	}}
	ex := NewExtractor(client, enabledConfig(), nil)

	res, err := ex.Run(context.Background(), ExtractionInput{
		Description: "small bathroom renovation with new tiles and plumbing work needed soon",
	})
	require.NoError(t, err)
	assert.Equal(t, fallbackConfidence, res.Confidence)
}

func TestValidateExtracted_Bounds(t *testing.T) {
	size := func(v float64) *float64 { return &v }
	list := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("item %d", i)
		}
		return out
	}

	tests := []struct {
		name    string
		data    domain.ExtractedData
		wantErr bool
	}{
		{"size at the cap", domain.ExtractedData{SizeSqm: size(10000)}, false},
		{"size above the cap", domain.ExtractedData{SizeSqm: size(10001)}, true},
		{"zero size", domain.ExtractedData{SizeSqm: size(0)}, true},
		{"negative size", domain.ExtractedData{SizeSqm: size(-5)}, true},
		{"requirements at the cap", domain.ExtractedData{KeyRequirements: list(10)}, false},
		{"too many requirements", domain.ExtractedData{KeyRequirements: list(11)}, true},
		{"too much missing information", domain.ExtractedData{MissingInformation: list(11)}, true},
		{"follow-ups at the cap", domain.ExtractedData{FollowUpQuestions: list(3)}, false},
		{"too many follow-ups", domain.ExtractedData{FollowUpQuestions: list(4)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateExtracted(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtractor_BackendUnreachableIsTransient(t *testing.T) {
	client := &testutil.ScriptedLLM{
		Err: fmt.Errorf("generate: %w", llm.ErrBackendUnavailable),
	}
	ex := NewExtractor(client, enabledConfig(), nil)

	_, err := ex.Run(context.Background(), ExtractionInput{Description: "anything"})
	require.Error(t, err)
	assert.True(t, IsTransient(err))

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, NameExtraction, se.Stage)
}

func TestExtractor_DisabledSkipsModel(t *testing.T) {
	client := &testutil.ScriptedLLM{}
	cfg := enabledConfig()
	cfg.Enabled = false
	ex := NewExtractor(client, cfg, nil)

	res, err := ex.Run(context.Background(), ExtractionInput{
		Description: testutil.DefaultDescription,
	})
	require.NoError(t, err)
	assert.Empty(t, client.Calls)
	assert.Equal(t, fallbackConfidence, res.Confidence)
}

func TestExtractor_ClientProjectTypeWins(t *testing.T) {
	client := &testutil.ScriptedLLM{Responses: []string{
		`{"project_type": "residential", "confidence_score": 0.8}`,
	}}
	ex := NewExtractor(client, enabledConfig(), nil)

	res, err := ex.Run(context.Background(), ExtractionInput{
		Description: testutil.DefaultDescription,
		ProjectType: domain.TypeCommercial,
	})
	require.NoError(t, err)
	assert.Equal(t, "commercial", res.Extracted.ProjectType)
}

func TestPatternExtract(t *testing.T) {
	tests := []struct {
		name        string
		description string
		projectType domain.ProjectType
		sizeSqm     *float64
		weeks       *int
		finishLevel string
	}{
		{
			name:        "sqm size is taken directly",
			description: "new build villa of 250 sqm in a quiet area, premium finishes throughout",
			projectType: domain.TypeNewConstruction,
			sizeSqm:     ptr(250.0),
			finishLevel: FinishPremium,
		},
		{
			name:        "sqft size is converted",
			description: "renovate a 1,000 sq ft apartment kitchen over 6 weeks on a budget",
			projectType: domain.TypeRenovation,
			sizeSqm:     ptr(1000 * sqftToSqm),
			weeks:       ptr(6),
			finishLevel: FinishBasic,
		},
		{
			name:        "months convert to weeks",
			description: "warehouse fit-out expected to take 3 months with standard finishes",
			projectType: domain.TypeCommercial,
			weeks:       ptr(12),
			finishLevel: FinishStandard,
		},
		{
			name:        "defaults to residential with no keywords",
			description: "need some work done on the back garden wall and gate",
			projectType: domain.TypeResidential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := patternExtract(ExtractionInput{Description: tt.description})

			assert.Equal(t, string(tt.projectType), d.ProjectType)
			assert.Equal(t, tt.finishLevel, d.TargetFinishLevel)

			if tt.sizeSqm == nil {
				assert.Nil(t, d.SizeSqm)
				assert.Contains(t, d.MissingInformation, "project size")
				assert.NotEmpty(t, d.FollowUpQuestions)
			} else {
				require.NotNil(t, d.SizeSqm)
				assert.InDelta(t, *tt.sizeSqm, *d.SizeSqm, 0.01)
			}

			if tt.weeks == nil {
				assert.Nil(t, d.TimelineWeeks)
				assert.Contains(t, d.MissingInformation, "timeline")
			} else {
				require.NotNil(t, d.TimelineWeeks)
				assert.Equal(t, *tt.weeks, *d.TimelineWeeks)
			}
		})
	}
}

func TestPatternExtract_AttachmentTextIsSearched(t *testing.T) {
	d := patternExtract(ExtractionInput{
		Description:    "please quote the attached office project for us",
		AttachmentText: "Scope: full fit-out of 320 sqm over 10 weeks.",
	})
	require.NotNil(t, d.SizeSqm)
	assert.InDelta(t, 320, *d.SizeSqm, 0.001)
	require.NotNil(t, d.TimelineWeeks)
	assert.Equal(t, 10, *d.TimelineWeeks)
	assert.Equal(t, string(domain.TypeCommercial), d.ProjectType)
}

func ptr[T any](v T) *T { return &v }
