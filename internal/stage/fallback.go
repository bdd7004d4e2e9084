package stage

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avelarbuild/quotient/internal/domain"
)

// Pattern extraction is the degraded path: keyword and regex matching
// over the raw description. Confidence is fixed low so downstream
// consumers know the parameters were not reasoned about.
const fallbackConfidence = 0.5

var (
	sqftPattern  = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:sq\.?\s?ft|sqft|square\s+feet|ft2)`)
	sqmPattern   = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:sqm|sq\.?\s?m|square\s+met(?:er|re)s?|m2|m²)`)
	weekPattern  = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*weeks?`)
	monthPattern = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*months?`)
)

func patternExtract(in ExtractionInput) *domain.ExtractedData {
	text := in.Description
	if in.AttachmentText != "" {
		text += "\n" + in.AttachmentText
	}
	lower := strings.ToLower(text)

	d := &domain.ExtractedData{
		ProjectType:     string(guessProjectType(lower)),
		ConfidenceScore: fallbackConfidence,
	}

	if sqm, ok := matchNumber(sqmPattern, text); ok {
		d.SizeSqm = &sqm
	} else if sqft, ok := matchNumber(sqftPattern, text); ok {
		sqm := sqft * sqftToSqm
		d.SizeSqm = &sqm
	}

	if w, ok := matchNumber(weekPattern, text); ok {
		weeks := int(w)
		d.TimelineWeeks = &weeks
	} else if m, ok := matchNumber(monthPattern, text); ok {
		weeks := int(m) * 4
		d.TimelineWeeks = &weeks
	}

	d.TargetFinishLevel = guessFinishLevel(lower)

	if d.SizeSqm == nil {
		d.MissingInformation = append(d.MissingInformation, "project size")
		d.FollowUpQuestions = append(d.FollowUpQuestions,
			"What is the approximate size of the project in square meters?")
	}
	if d.TimelineWeeks == nil {
		d.MissingInformation = append(d.MissingInformation, "timeline")
		d.FollowUpQuestions = append(d.FollowUpQuestions,
			"Do you have a target timeline for completion?")
	}

	return d
}

func guessProjectType(lower string) domain.ProjectType {
	switch {
	case containsAny(lower, "renovation", "renovate", "remodel", "refurbish"):
		return domain.TypeRenovation
	case containsAny(lower, "new construction", "new build", "ground-up", "ground up"):
		return domain.TypeNewConstruction
	case containsAny(lower, "office", "commercial", "retail", "warehouse", "restaurant", "shop"):
		return domain.TypeCommercial
	default:
		return domain.TypeResidential
	}
}

func guessFinishLevel(lower string) string {
	switch {
	case containsAny(lower, "premium", "luxury", "high-end", "high end", "upscale"):
		return FinishPremium
	case containsAny(lower, "basic", "budget", "economy", "low-cost", "low cost"):
		return FinishBasic
	case containsAny(lower, "standard", "modern", "mid-range", "mid range"):
		return FinishStandard
	default:
		return ""
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func matchNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
