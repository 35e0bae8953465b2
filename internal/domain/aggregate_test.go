package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Add(t *testing.T) {
	t.Run("sums per group", func(t *testing.T) {
		a := NewAggregator()
		a.Add(EventRecord{EventType: "FLOOD", Fatalities: 1, Injuries: 5, PropertyDamageUSD: 1000, CropDamageUSD: 0})
		a.Add(EventRecord{EventType: "FLOOD", Fatalities: 2, Injuries: 1, PropertyDamageUSD: 500, CropDamageUSD: 250})

		recs := a.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, AggregateRecord{
			EventType: "FLOOD", Events: 2,
			Fatalities: 3, Injuries: 6,
			PropertyDamageUSD: 1500, CropDamageUSD: 250,
		}, recs[0])
	})

	t.Run("unmatched labels form their own groups", func(t *testing.T) {
		a := NewAggregator()
		a.Add(EventRecord{EventType: "FLOOD", Matched: true})
		a.Add(EventRecord{EventType: "DAM BREAK", Matched: false})
		a.Add(EventRecord{EventType: "LANDSLUMP", Matched: false})

		assert.Equal(t, 3, a.Len())
	})

	t.Run("NaN poisons the damage sum and is counted", func(t *testing.T) {
		a := NewAggregator()
		a.Add(EventRecord{EventType: "HAIL", PropertyDamageUSD: 1000, CropDamageUSD: 10})
		a.Add(EventRecord{EventType: "HAIL", PropertyDamageUSD: math.NaN(), CropDamageUSD: 20})

		recs := a.Records()
		require.Len(t, recs, 1)
		assert.True(t, math.IsNaN(recs[0].PropertyDamageUSD))
		assert.Equal(t, 30.0, recs[0].CropDamageUSD)
		assert.Equal(t, 1, recs[0].UndefinedCosts)
		assert.Equal(t, 2, recs[0].Events)
	})
}

func TestAggregator_Records_FirstSeenOrder(t *testing.T) {
	a := NewAggregator()
	for _, typ := range []string{"TORNADO", "FLOOD", "HAIL", "FLOOD", "TORNADO", "HEAT"} {
		a.Add(EventRecord{EventType: typ})
	}

	recs := a.Records()
	require.Len(t, recs, 4)
	order := make([]string, len(recs))
	for i, r := range recs {
		order[i] = r.EventType
	}
	assert.Equal(t, []string{"TORNADO", "FLOOD", "HAIL", "HEAT"}, order)
}

func TestAggregator_ConservesMeasures(t *testing.T) {
	records := []EventRecord{
		{EventType: "FLOOD", Fatalities: 1, Injuries: 2, PropertyDamageUSD: 100, CropDamageUSD: 5},
		{EventType: "TORNADO", Fatalities: 4, Injuries: 40, PropertyDamageUSD: 900, CropDamageUSD: 0},
		{EventType: "FLOOD", Fatalities: 2, Injuries: 0, PropertyDamageUSD: 50, CropDamageUSD: 15},
		{EventType: "HEAT", Fatalities: 7, Injuries: 3, PropertyDamageUSD: 0, CropDamageUSD: 30},
	}

	a := NewAggregator()
	var wantFatalities, wantInjuries int
	var wantProperty, wantCrop float64
	for _, r := range records {
		a.Add(r)
		wantFatalities += r.Fatalities
		wantInjuries += r.Injuries
		wantProperty += r.PropertyDamageUSD
		wantCrop += r.CropDamageUSD
	}

	var gotFatalities, gotInjuries int
	var gotProperty, gotCrop float64
	for _, g := range a.Records() {
		gotFatalities += g.Fatalities
		gotInjuries += g.Injuries
		gotProperty += g.PropertyDamageUSD
		gotCrop += g.CropDamageUSD
	}

	assert.Equal(t, wantFatalities, gotFatalities)
	assert.Equal(t, wantInjuries, gotInjuries)
	assert.Equal(t, wantProperty, gotProperty)
	assert.Equal(t, wantCrop, gotCrop)
}
