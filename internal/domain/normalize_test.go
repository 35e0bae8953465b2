package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"tstm substring expands then matches wind rule", "TSTM WIND", "THUNDERSTORM WIND"},
		{"marine tstm collapses through two rules", "MARINE TSTM WIND", "THUNDERSTORM WIND"},
		{"thunderstorm wind qualifier dropped", "THUNDERSTORM WINDS/HAIL", "THUNDERSTORM WIND"},
		{"winter", "WINTER STORM", "WINTER WEATHER"},
		{"fld abbreviation", "URBAN FLD", "FLOOD"},
		{"flood qualifier dropped", "RIVER FLOODING", "FLOOD"},
		{"hurricane name dropped", "HURRICANE OPAL", "HURRICANE (TYPHOON)"},
		{"fire", "WILD/FOREST FIRE", "WILDFIRE"},
		{"already canonical", "TORNADO", "TORNADO"},
		{"lowercase and whitespace", "  tstm wind  ", "THUNDERSTORM WIND"},
		{"no rule applies", "RIP CURRENT", "RIP CURRENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalizeLabel(tt.raw))
		})
	}
}

func TestCanonicalizeLabel_Idempotent(t *testing.T) {
	// Re-running the full chain on its own output must not change it.
	for _, raw := range []string{
		"TSTM WIND", "RIVER FLOODING", "HURRICANE OPAL", "WINTER STORM",
		"BRUSH FIRE", "FLOOD", "THUNDERSTORM WIND", "TORNADO",
	} {
		once := CanonicalizeLabel(raw)
		assert.Equal(t, once, CanonicalizeLabel(once), "label %q", raw)
	}
}

func TestRewrittenLabel(t *testing.T) {
	t.Run("rewritten", func(t *testing.T) {
		label, rewritten := RewrittenLabel("TSTM WIND")
		assert.Equal(t, "THUNDERSTORM WIND", label)
		assert.True(t, rewritten)
	})

	t.Run("case folding alone is not a rewrite", func(t *testing.T) {
		label, rewritten := RewrittenLabel("  tornado ")
		assert.Equal(t, "TORNADO", label)
		assert.False(t, rewritten)
	})
}
