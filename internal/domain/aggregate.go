package domain

import (
	"encoding/json"
	"math"
)

// Aggregator groups priced records by their final event-type label and sums
// the four impact measures per group. Unmatched labels form their own groups;
// nothing is merged into a catch-all.
//
// Undefined (NaN) dollar values poison the group's damage sum: IEEE-754
// addition propagates them, and a NaN total is honest about data quality
// where treating the value as zero would understate damage. UndefinedCosts
// records how many values were undefined so consumers can tell a poisoned
// total from a clean one.
type Aggregator struct {
	groups map[string]*AggregateRecord
	order  []string // first-seen insertion order, the ranker's tie-break
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{groups: map[string]*AggregateRecord{}}
}

// Add folds one record into its event-type group.
func (a *Aggregator) Add(r EventRecord) {
	g, ok := a.groups[r.EventType]
	if !ok {
		g = &AggregateRecord{EventType: r.EventType}
		a.groups[r.EventType] = g
		a.order = append(a.order, r.EventType)
	}

	g.Events++
	g.Fatalities += r.Fatalities
	g.Injuries += r.Injuries
	g.PropertyDamageUSD += r.PropertyDamageUSD
	g.CropDamageUSD += r.CropDamageUSD

	if math.IsNaN(r.PropertyDamageUSD) {
		g.UndefinedCosts++
	}
	if math.IsNaN(r.CropDamageUSD) {
		g.UndefinedCosts++
	}
}

// Records returns a copy of all groups in first-seen order.
func (a *Aggregator) Records() []AggregateRecord {
	out := make([]AggregateRecord, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.groups[key])
	}
	return out
}

// Len returns the number of distinct groups.
func (a *Aggregator) Len() int { return len(a.order) }

// MarshalJSON renders the group with NaN damage sums as null, since
// encoding/json rejects NaN. UndefinedCosts tells readers which nulls hide
// how many unknown values.
func (r AggregateRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventType         string   `json:"event_type"`
		Events            int      `json:"events"`
		Fatalities        int      `json:"fatalities"`
		Injuries          int      `json:"injuries"`
		PropertyDamageUSD *float64 `json:"property_damage_usd"`
		CropDamageUSD     *float64 `json:"crop_damage_usd"`
		UndefinedCosts    int      `json:"undefined_costs,omitempty"`
	}{
		EventType:         r.EventType,
		Events:            r.Events,
		Fatalities:        r.Fatalities,
		Injuries:          r.Injuries,
		PropertyDamageUSD: nullableUSD(r.PropertyDamageUSD),
		CropDamageUSD:     nullableUSD(r.CropDamageUSD),
		UndefinedCosts:    r.UndefinedCosts,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON: null damage sums decode to NaN.
func (r *AggregateRecord) UnmarshalJSON(data []byte) error {
	var in struct {
		EventType         string   `json:"event_type"`
		Events            int      `json:"events"`
		Fatalities        int      `json:"fatalities"`
		Injuries          int      `json:"injuries"`
		PropertyDamageUSD *float64 `json:"property_damage_usd"`
		CropDamageUSD     *float64 `json:"crop_damage_usd"`
		UndefinedCosts    int      `json:"undefined_costs"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = AggregateRecord{
		EventType:         in.EventType,
		Events:            in.Events,
		Fatalities:        in.Fatalities,
		Injuries:          in.Injuries,
		PropertyDamageUSD: math.NaN(),
		CropDamageUSD:     math.NaN(),
		UndefinedCosts:    in.UndefinedCosts,
	}
	if in.PropertyDamageUSD != nil {
		r.PropertyDamageUSD = *in.PropertyDamageUSD
	}
	if in.CropDamageUSD != nil {
		r.CropDamageUSD = *in.CropDamageUSD
	}
	return nil
}

// nullableUSD maps NaN to nil for JSON output.
func nullableUSD(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
