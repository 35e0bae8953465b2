package domain

import "math"

// MultiplierTable maps single-character damage exponent codes to their
// numeric multipliers, e.g. "K" -> 1e3, "M" -> 1e6, "B" -> 1e9. Loaded once
// from the lookup-table input and read-only afterwards.
type MultiplierTable map[string]float64

// Multiplier returns the multiplier for code. Lookup is a case-sensitive
// exact match; the table carries both cases where both occur in the data.
func (t MultiplierTable) Multiplier(code string) (float64, bool) {
	m, ok := t[code]
	return m, ok
}

// DamageUSD converts a raw magnitude and exponent code to dollars. A code
// with no table entry yields NaN: the value is unknown, and neither zero nor
// the bare magnitude is a defensible substitute.
func (t MultiplierTable) DamageUSD(magnitude float64, code string) float64 {
	m, ok := t[code]
	if !ok {
		return math.NaN()
	}
	return magnitude * m
}

// PriceDamage fills in the record's dollar fields from its coded magnitudes.
// Pure per-record transform; records are independent, so callers may run it
// in parallel.
func PriceDamage(r EventRecord, table MultiplierTable) EventRecord {
	r.PropertyDamageUSD = table.DamageUSD(r.PropertyDamageMagnitude, r.PropertyDamageCode)
	r.CropDamageUSD = table.DamageUSD(r.CropDamageMagnitude, r.CropDamageCode)
	return r
}
