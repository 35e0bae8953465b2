package domain

// FilterStats counts records dropped by each filter condition. A record
// failing both conditions is counted once, under the cutoff.
type FilterStats struct {
	Kept         int
	BeforeCutoff int
	NoImpact     int
}

// Filter returns the records with Year >= cutoffYear and at least one
// non-zero impact field. Rows with year 0 (unparseable begin dates) fall to
// the cutoff condition; the loader reports them separately.
func Filter(records []EventRecord, cutoffYear int) ([]EventRecord, FilterStats) {
	var stats FilterStats
	kept := make([]EventRecord, 0, len(records))
	for _, r := range records {
		switch {
		case r.Year < cutoffYear:
			stats.BeforeCutoff++
		case !r.HasImpact():
			stats.NoImpact++
		default:
			kept = append(kept, r)
		}
	}
	stats.Kept = len(kept)
	return kept, stats
}
