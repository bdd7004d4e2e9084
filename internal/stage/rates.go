package stage

import "strings"

const (
	FinishBasic    = "basic"
	FinishStandard = "standard"
	FinishPremium  = "premium"
)

const CurrencyEGP = "EGP"

// Projects with no stated size are priced at this area.
const defaultSizeSqm = 100.0

const (
	contingencyRate = 0.10
	markupRate      = 0.10
)

// Egypt market rates, all amounts in EGP.

// Blended material cost per square meter by finish level.
var materialCostPerSqm = map[string]float64{
	FinishBasic:    1800,
	FinishStandard: 3000,
	FinishPremium:  5000,
}

// Hourly labor rates by trade.
var laborRates = map[string]float64{
	"general_contractor": 150,
	"electrician":        120,
	"plumber":            100,
	"carpenter":          100,
	"painter":            80,
	"tiler":              120,
	"plasterer":          90,
}

// Share of total labor hours assigned to each priced trade.
var tradeShares = []struct {
	Trade string
	Share float64
}{
	{"general_contractor", 0.4},
	{"electrician", 0.2},
	{"plumber", 0.2},
	{"carpenter", 0.2},
}

// Regional cost multipliers by city or governorate.
var regionalMultipliers = map[string]float64{
	"cairo":       1.2,
	"alexandria":  1.15,
	"giza":        1.1,
	"new_cairo":   1.25,
	"6_october":   1.2,
	"new_capital": 1.3,
	"default":     1.0,
}

func averageLaborRate() float64 {
	var sum float64
	for _, r := range laborRates {
		sum += r
	}
	return sum / float64(len(laborRates))
}

func laborHoursPerSqm(projectType string) float64 {
	switch projectType {
	case "renovation":
		return 8
	case "commercial":
		return 12
	default:
		return 10
	}
}

func permitFees(projectType string) float64 {
	switch projectType {
	case "commercial":
		return 5000
	case "new_construction":
		return 8000
	default:
		return 3000
	}
}

// detectRegion maps a free-text location to a regional pricing key.
// Recognizes the major cities in English and Arabic.
func detectRegion(location string) string {
	if location == "" {
		return "default"
	}
	lower := strings.ToLower(location)

	switch {
	case containsAny(lower, "cairo", "القاهرة", "القاهره"):
		if containsAny(lower, "new", "جديد") {
			return "new_cairo"
		}
		return "cairo"
	case containsAny(lower, "alexandria", "الإسكندرية", "اسكندريه"):
		return "alexandria"
	case containsAny(lower, "giza", "الجيزة", "جيزه"):
		return "giza"
	case containsAny(lower, "6 october", "6th october", "أكتوبر", "السادس"):
		return "6_october"
	case containsAny(lower, "new capital", "العاصمة", "الادارية"):
		return "new_capital"
	}
	return "default"
}
