package domain

import (
	"fmt"
	"math"
	"sort"
)

// Measure names one of the four impact columns an aggregate table can be
// ranked by.
type Measure string

const (
	MeasureFatalities     Measure = "fatalities"
	MeasureInjuries       Measure = "injuries"
	MeasurePropertyDamage Measure = "property_damage"
	MeasureCropDamage     Measure = "crop_damage"
)

// Measures returns the four rankable measures in report order.
func Measures() []Measure {
	return []Measure{MeasureFatalities, MeasureInjuries, MeasurePropertyDamage, MeasureCropDamage}
}

// Value extracts the measure's column from an aggregate record.
func (m Measure) Value(r AggregateRecord) (float64, error) {
	switch m {
	case MeasureFatalities:
		return float64(r.Fatalities), nil
	case MeasureInjuries:
		return float64(r.Injuries), nil
	case MeasurePropertyDamage:
		return r.PropertyDamageUSD, nil
	case MeasureCropDamage:
		return r.CropDamageUSD, nil
	}
	return 0, fmt.Errorf("unknown measure %q", string(m))
}

// TopN returns the n highest groups by measure, descending, without mutating
// the input. The sort is stable, so groups with equal values keep their
// aggregation (first-seen) order. NaN totals sort below every number: a
// poisoned damage sum never outranks a defined one.
func TopN(records []AggregateRecord, measure Measure, n int) ([]AggregateRecord, error) {
	if _, err := measure.Value(AggregateRecord{}); err != nil {
		return nil, err
	}

	ranked := make([]AggregateRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, _ := measure.Value(ranked[i])
		vj, _ := measure.Value(ranked[j])
		return sortKey(vi) > sortKey(vj)
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// sortKey maps NaN to -Inf so undefined totals rank last instead of
// floating unpredictably through the comparisons.
func sortKey(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}
