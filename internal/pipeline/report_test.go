package pipeline

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

func sampleReport() *Report {
	return &Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		CutoffYear:  1996,
		TopN:        10,
		Diagnostics: Diagnostics{
			RowsLoaded:      3,
			RecordsAnalyzed: 3,
			EventTypeGroups: 2,
			UndefinedCosts:  1,
			UnmatchedLabels: []string{"LANDSLUMP"},
		},
		Totals: Totals{Fatalities: 5, Injuries: 7, PropertyDamageUSD: math.NaN(), CropDamageUSD: 1500},
		Rankings: Rankings{
			Fatalities: []domain.AggregateRecord{
				{EventType: "TORNADO", Events: 2, Fatalities: 5, Injuries: 7, PropertyDamageUSD: math.NaN(), CropDamageUSD: 1500, UndefinedCosts: 1},
				{EventType: "FLOOD", Events: 1, PropertyDamageUSD: 2500},
			},
		},
	}
}

func TestReport_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(sampleReport())
	require.NoError(t, err, "NaN values must marshal as null, not fail")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	totals := decoded["totals"].(map[string]any)
	assert.Nil(t, totals["property_damage_usd"])
	assert.Equal(t, 1500.0, totals["crop_damage_usd"])

	rankings := decoded["rankings"].(map[string]any)
	top := rankings["fatalities"].([]any)
	first := top[0].(map[string]any)
	assert.Nil(t, first["property_damage_usd"])
	assert.Equal(t, 1500.0, first["crop_damage_usd"])
	assert.Equal(t, 1.0, first["undefined_costs"])
}

func TestReport_WriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, sampleReport().WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 5, decoded.Totals.Fatalities)
}

func TestReport_WriteTables(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport().WriteTables(&sb))

	out := sb.String()
	assert.Contains(t, out, "Fatalities")
	assert.Contains(t, out, "TORNADO")
	assert.Contains(t, out, "records analyzed")
	assert.Contains(t, out, "run run-1")
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{115e9, "$115.0B"},
		{5030000, "$5.0M"},
		{2500, "$2.5K"},
		{250, "$250"},
		{0, "$0"},
		{math.NaN(), "undefined"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatUSD(tt.value))
	}
}

func TestTotalsOf(t *testing.T) {
	groups := []domain.AggregateRecord{
		{Fatalities: 2, Injuries: 3, PropertyDamageUSD: 100, CropDamageUSD: 10},
		{Fatalities: 1, Injuries: 0, PropertyDamageUSD: 50, CropDamageUSD: 20},
	}
	assert.Equal(t, Totals{Fatalities: 3, Injuries: 3, PropertyDamageUSD: 150, CropDamageUSD: 30}, totalsOf(groups))

	t.Run("NaN poisons the total", func(t *testing.T) {
		poisoned := append(groups, domain.AggregateRecord{PropertyDamageUSD: math.NaN()})
		total := totalsOf(poisoned)
		assert.True(t, math.IsNaN(total.PropertyDamageUSD))
		assert.Equal(t, 30.0, total.CropDamageUSD)
	})
}
