package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Report is the run's output: four ranked tables plus totals and data-quality
// diagnostics. Chart rendering is an external consumer of this structure.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	CutoffYear  int       `json:"cutoff_year"`
	TopN        int       `json:"top_n"`

	Diagnostics Diagnostics `json:"diagnostics"`
	Totals      Totals      `json:"totals"`
	Rankings    Rankings    `json:"rankings"`
}

// Rankings holds the four independent top-N tables, each a descending sort
// of the same aggregate table by one measure.
type Rankings struct {
	Fatalities     []domain.AggregateRecord `json:"fatalities"`
	Injuries       []domain.AggregateRecord `json:"injuries"`
	PropertyDamage []domain.AggregateRecord `json:"property_damage"`
	CropDamage     []domain.AggregateRecord `json:"crop_damage"`
}

// Diagnostics surfaces every place the pipeline dropped, rewrote, or failed
// to resolve data, so none of it is a silent side effect.
type Diagnostics struct {
	RowsLoaded          int `json:"rows_loaded"`
	DateParseFailures   int `json:"date_parse_failures"`
	DroppedBeforeCutoff int `json:"dropped_before_cutoff"`
	DroppedNoImpact     int `json:"dropped_no_impact"`
	RecordsAnalyzed     int `json:"records_analyzed"`

	LabelsRewritten  int      `json:"labels_rewritten"`
	UnmatchedRecords int      `json:"unmatched_records"`
	UnmatchedLabels  []string `json:"unmatched_labels,omitempty"`

	UndefinedCosts  int `json:"undefined_costs"`
	EventTypeGroups int `json:"event_type_groups"`
}

// Totals sums each measure over the full aggregate table, not just the top
// N, so it equals the sums over all filtered records.
type Totals struct {
	Fatalities        int
	Injuries          int
	PropertyDamageUSD float64
	CropDamageUSD     float64
}

func totalsOf(groups []domain.AggregateRecord) Totals {
	var t Totals
	for _, g := range groups {
		t.Fatalities += g.Fatalities
		t.Injuries += g.Injuries
		t.PropertyDamageUSD += g.PropertyDamageUSD
		t.CropDamageUSD += g.CropDamageUSD
	}
	return t
}

// MarshalJSON renders NaN damage totals as null, mirroring AggregateRecord.
func (t Totals) MarshalJSON() ([]byte, error) {
	out := struct {
		Fatalities        int      `json:"fatalities"`
		Injuries          int      `json:"injuries"`
		PropertyDamageUSD *float64 `json:"property_damage_usd"`
		CropDamageUSD     *float64 `json:"crop_damage_usd"`
	}{Fatalities: t.Fatalities, Injuries: t.Injuries}
	if !math.IsNaN(t.PropertyDamageUSD) {
		out.PropertyDamageUSD = &t.PropertyDamageUSD
	}
	if !math.IsNaN(t.CropDamageUSD) {
		out.CropDamageUSD = &t.CropDamageUSD
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: null totals decode to NaN.
func (t *Totals) UnmarshalJSON(data []byte) error {
	var in struct {
		Fatalities        int      `json:"fatalities"`
		Injuries          int      `json:"injuries"`
		PropertyDamageUSD *float64 `json:"property_damage_usd"`
		CropDamageUSD     *float64 `json:"crop_damage_usd"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = Totals{
		Fatalities:        in.Fatalities,
		Injuries:          in.Injuries,
		PropertyDamageUSD: math.NaN(),
		CropDamageUSD:     math.NaN(),
	}
	if in.PropertyDamageUSD != nil {
		t.PropertyDamageUSD = *in.PropertyDamageUSD
	}
	if in.CropDamageUSD != nil {
		t.CropDamageUSD = *in.CropDamageUSD
	}
	return nil
}

// WriteJSON writes the report to path as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteTables prints the four ranked tables and the run diagnostics as
// aligned text.
func (r *Report) WriteTables(w io.Writer) error {
	fmt.Fprintf(w, "Storm Events impact report (years >= %d, top %d)\n", r.CutoffYear, r.TopN)
	fmt.Fprintf(w, "run %s, generated %s\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	writeTable(w, "Fatalities", r.Rankings.Fatalities, func(g domain.AggregateRecord) string {
		return fmt.Sprintf("%d", g.Fatalities)
	})
	writeTable(w, "Injuries", r.Rankings.Injuries, func(g domain.AggregateRecord) string {
		return fmt.Sprintf("%d", g.Injuries)
	})
	writeTable(w, "Property damage", r.Rankings.PropertyDamage, func(g domain.AggregateRecord) string {
		return formatUSD(g.PropertyDamageUSD)
	})
	writeTable(w, "Crop damage", r.Rankings.CropDamage, func(g domain.AggregateRecord) string {
		return formatUSD(g.CropDamageUSD)
	})

	d := r.Diagnostics
	fmt.Fprintf(w, "\nDiagnostics\n")
	fmt.Fprintf(w, "  rows loaded:           %d\n", d.RowsLoaded)
	fmt.Fprintf(w, "  date parse failures:   %d\n", d.DateParseFailures)
	fmt.Fprintf(w, "  dropped before cutoff: %d\n", d.DroppedBeforeCutoff)
	fmt.Fprintf(w, "  dropped no impact:     %d\n", d.DroppedNoImpact)
	fmt.Fprintf(w, "  records analyzed:      %d\n", d.RecordsAnalyzed)
	fmt.Fprintf(w, "  labels rewritten:      %d\n", d.LabelsRewritten)
	fmt.Fprintf(w, "  unmatched records:     %d (%d distinct labels)\n", d.UnmatchedRecords, len(d.UnmatchedLabels))
	fmt.Fprintf(w, "  undefined costs:       %d\n", d.UndefinedCosts)
	fmt.Fprintf(w, "  event type groups:     %d\n", d.EventTypeGroups)
	return nil
}

func writeTable(w io.Writer, title string, groups []domain.AggregateRecord, value func(domain.AggregateRecord) string) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, g := range groups {
		fmt.Fprintf(w, "  %2d. %-28s %s\n", i+1, g.EventType, value(g))
	}
}

// formatUSD renders a dollar value with the K/M/B scale the dataset codes
// damage in; NaN renders as "undefined".
func formatUSD(v float64) string {
	switch {
	case math.IsNaN(v):
		return "undefined"
	case math.Abs(v) >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
