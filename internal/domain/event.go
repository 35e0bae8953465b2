package domain

// EventRecord is one row of the Storm Events dataset, reduced to the columns
// this analysis reads. EventType starts as the raw free-text label and is
// replaced by the canonicalized label during normalization; the USD fields
// start unset and are filled in by the cost calculator.
type EventRecord struct {
	Year       int
	EventType  string
	Fatalities int
	Injuries   int

	PropertyDamageMagnitude float64
	PropertyDamageCode      string
	CropDamageMagnitude     float64
	CropDamageCode          string

	// Matched reports whether EventType was fuzzy-matched onto the official
	// vocabulary. Unmatched records keep their rewritten label and stay in
	// the dataset; they surface in diagnostics instead of being dropped.
	Matched bool

	// Dollar values computed from magnitude x exponent multiplier.
	// NaN when the exponent code has no table entry.
	PropertyDamageUSD float64
	CropDamageUSD     float64
}

// HasImpact reports whether the record carries any casualty or damage signal.
func (r EventRecord) HasImpact() bool {
	return r.Fatalities != 0 || r.Injuries != 0 ||
		r.PropertyDamageMagnitude != 0 || r.CropDamageMagnitude != 0
}

// AggregateRecord holds the summed impact for one event-type group.
// It marshals NaN damage sums as null; see MarshalJSON.
type AggregateRecord struct {
	EventType string
	Events    int

	Fatalities int
	Injuries   int

	// Damage sums are NaN when any record in the group had an undefined
	// dollar value; UndefinedCosts says how many.
	PropertyDamageUSD float64
	CropDamageUSD     float64
	UndefinedCosts    int
}

// Vocabulary is the ordered official event-type list used as the fuzzy-match
// target. Order matters: it breaks ties between equally close candidates.
type Vocabulary []string

// Contains reports whether name is an exact vocabulary entry.
func (v Vocabulary) Contains(name string) bool {
	for _, c := range v {
		if c == name {
			return true
		}
	}
	return false
}
