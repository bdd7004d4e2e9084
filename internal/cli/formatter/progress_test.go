package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
	}{
		{"0%", 0.0, 10},
		{"40%", 0.4, 10},
		{"100%", 1.0, 10},
		{"over 100% clamps", 1.5, 10},
		{"negative clamps", -0.5, 10},
		{"tiny width clamps to 2", 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, tt.width)
			assert.Contains(t, got, "[")
			assert.Contains(t, got, "]")
			assert.Contains(t, got, "%")
		})
	}
}

func TestRenderProgress_Blocks(t *testing.T) {
	assert.Contains(t, RenderProgress(0, 4), emptyBlock)
	assert.NotContains(t, RenderProgress(0, 4), filledBlock)
	assert.Contains(t, RenderProgress(1, 4), filledBlock)
	assert.NotContains(t, RenderProgress(1, 4), emptyBlock)
}

func TestRenderStageTrack_HighlightsCurrentStage(t *testing.T) {
	out := RenderStageTrack("data_collection")
	assert.Contains(t, out, "initializing")
	assert.Contains(t, out, "data_collection")
	assert.Contains(t, out, "cost_calculation")
}
