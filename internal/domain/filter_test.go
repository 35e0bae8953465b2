package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	records := []EventRecord{
		{Year: 2005, EventType: "TORNADO", Fatalities: 1},
		{Year: 1995, EventType: "TORNADO", Fatalities: 3},                 // before cutoff
		{Year: 2010, EventType: "HAIL"},                                   // no impact
		{Year: 0, EventType: "FLOOD", Injuries: 2},                        // unparseable date
		{Year: 1996, EventType: "FLOOD", PropertyDamageMagnitude: 1.5},    // cutoff boundary
		{Year: 2001, EventType: "DROUGHT", CropDamageMagnitude: 20},       // crop-only impact
		{Year: 1990, EventType: "HEAT"},                                   // both conditions, counted once
		{Year: 1999, EventType: "THUNDERSTORM WIND", Injuries: 4},
	}

	kept, stats := Filter(records, 1996)

	assert.Len(t, kept, 4)
	assert.Equal(t, FilterStats{Kept: 4, BeforeCutoff: 3, NoImpact: 1}, stats)

	for _, r := range kept {
		assert.GreaterOrEqual(t, r.Year, 1996)
		assert.True(t, r.HasImpact())
	}
}

func TestFilter_Empty(t *testing.T) {
	kept, stats := Filter(nil, 1996)
	assert.Empty(t, kept)
	assert.Equal(t, FilterStats{}, stats)
}

func TestEventRecord_HasImpact(t *testing.T) {
	assert.False(t, EventRecord{}.HasImpact())
	assert.True(t, EventRecord{Fatalities: 1}.HasImpact())
	assert.True(t, EventRecord{Injuries: 1}.HasImpact())
	assert.True(t, EventRecord{PropertyDamageMagnitude: 0.5}.HasImpact())
	assert.True(t, EventRecord{CropDamageMagnitude: 0.5}.HasImpact())
}
