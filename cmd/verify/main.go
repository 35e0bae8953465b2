// Command verify cross-checks a previously written report JSON against a
// fresh recomputation from the raw inputs. It validates recompute parity,
// conservation of each measure through grouping, ranking order, and
// diagnostics consistency.
//
// Usage:
//
//	go run ./cmd/verify \
//	  -report report.json \
//	  -storm-data data/StormData.csv.bz2 \
//	  -multipliers data/multipliers.csv \
//	  -vocab data/event_types.txt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/loader"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

// phase tracks pass/fail for a verification phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	reportPath := flag.String("report", "", "path to the report JSON to verify")
	stormData := flag.String("storm-data", "", "events CSV the report was computed from")
	multipliers := flag.String("multipliers", "", "multiplier table path")
	vocab := flag.String("vocab", "", "canonical event-type list path")
	maxDistance := flag.Int("match-max-distance", 5, "fuzzy match distance used for the original run")
	flag.Parse()

	if *reportPath == "" || *stormData == "" || *multipliers == "" || *vocab == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*reportPath, *stormData, *multipliers, *vocab, *maxDistance); code != 0 {
		os.Exit(code)
	}
}

func run(reportPath, stormData, multipliers, vocab string, maxDistance int) int {
	report, err := readReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report: %v\n", err)
		return 1
	}

	recomputed, filtered, err := recompute(report, stormData, multipliers, vocab, maxDistance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: recompute pipeline: %v\n", err)
		return 1
	}

	fmt.Println("=== Storm Impact Report Verification ===")

	phases := []*phase{
		verifyRecomputeParity(report, recomputed),
		verifyConservation(report, filtered),
		verifyRankingOrder(report),
		verifyDiagnostics(report),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll verifications passed.")
		return 0
	}
	fmt.Println("\nVerification FAILED.")
	return 1
}

func readReport(path string) (*pipeline.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report pipeline.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// recompute reruns the pipeline with the report's own run settings and also
// returns the filtered records for the conservation check.
func recompute(report *pipeline.Report, stormData, multipliers, vocab string, maxDistance int) (*pipeline.Report, []domain.EventRecord, error) {
	cfg := &config.Config{
		StormDataPath:    stormData,
		MultiplierPath:   multipliers,
		VocabPath:        vocab,
		CutoffYear:       report.CutoffYear,
		TopN:             report.TopN,
		MatchMaxDistance: maxDistance,
		Workers:          1,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newMatcher := func(v domain.Vocabulary) domain.Matcher {
		return domain.NewLevenshteinMatcher(v, cfg.MatchMaxDistance)
	}
	p := pipeline.New(pipeline.NewFileInputs(cfg), newMatcher, logger,
		observability.NewMetrics(), cfg)

	recomputed, err := p.Run(context.Background())
	if err != nil {
		return nil, nil, err
	}

	events, _, err := loader.LoadEvents(stormData)
	if err != nil {
		return nil, nil, err
	}
	filtered, _ := domain.Filter(events, report.CutoffYear)
	return recomputed, filtered, nil
}

// ── Phase 1: Recompute Parity ──
// The stored rankings, totals, and diagnostics must match a fresh run.

func verifyRecomputeParity(report, recomputed *pipeline.Report) *phase {
	p := &phase{name: "Phase 1: Recompute Parity"}

	nanEq := cmp.Comparer(func(a, b float64) bool {
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	})

	if diff := cmp.Diff(recomputed.Rankings, report.Rankings, nanEq); diff != "" {
		p.errorf("rankings differ from recomputation (-recomputed +report):\n%s", diff)
	}
	if diff := cmp.Diff(recomputed.Totals, report.Totals, nanEq); diff != "" {
		p.errorf("totals differ from recomputation (-recomputed +report):\n%s", diff)
	}
	if diff := cmp.Diff(recomputed.Diagnostics, report.Diagnostics); diff != "" {
		p.errorf("diagnostics differ from recomputation (-recomputed +report):\n%s", diff)
	}
	return p
}

// ── Phase 2: Conservation ──
// Totals over the full aggregate table must equal sums over all filtered
// input records; grouping must not create or lose impact.

func verifyConservation(report *pipeline.Report, filtered []domain.EventRecord) *phase {
	p := &phase{name: "Phase 2: Measure Conservation"}

	var fatalities, injuries int
	for _, r := range filtered {
		fatalities += r.Fatalities
		injuries += r.Injuries
	}

	if report.Totals.Fatalities != fatalities {
		p.errorf("fatalities: report total %d, filtered input sum %d", report.Totals.Fatalities, fatalities)
	}
	if report.Totals.Injuries != injuries {
		p.errorf("injuries: report total %d, filtered input sum %d", report.Totals.Injuries, injuries)
	}
	if len(filtered) != report.Diagnostics.RecordsAnalyzed {
		p.errorf("records analyzed: report says %d, filter yields %d", report.Diagnostics.RecordsAnalyzed, len(filtered))
	}
	return p
}

// ── Phase 3: Ranking Order ──

func verifyRankingOrder(report *pipeline.Report) *phase {
	p := &phase{name: "Phase 3: Ranking Order"}

	tables := []struct {
		measure domain.Measure
		groups  []domain.AggregateRecord
	}{
		{domain.MeasureFatalities, report.Rankings.Fatalities},
		{domain.MeasureInjuries, report.Rankings.Injuries},
		{domain.MeasurePropertyDamage, report.Rankings.PropertyDamage},
		{domain.MeasureCropDamage, report.Rankings.CropDamage},
	}

	for _, table := range tables {
		if len(table.groups) > report.TopN {
			p.errorf("%s: %d entries exceeds top_n %d", table.measure, len(table.groups), report.TopN)
		}
		for i := 1; i < len(table.groups); i++ {
			prev, _ := table.measure.Value(table.groups[i-1])
			cur, _ := table.measure.Value(table.groups[i])
			if sortKey(cur) > sortKey(prev) {
				p.errorf("%s: rank %d (%s) outranks rank %d (%s)",
					table.measure, i+1, table.groups[i].EventType, i, table.groups[i-1].EventType)
			}
		}
	}
	return p
}

func sortKey(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

// ── Phase 4: Diagnostics Consistency ──

func verifyDiagnostics(report *pipeline.Report) *phase {
	p := &phase{name: "Phase 4: Diagnostics Consistency"}
	d := report.Diagnostics

	accounted := d.DroppedBeforeCutoff + d.DroppedNoImpact + d.RecordsAnalyzed
	if accounted != d.RowsLoaded {
		p.errorf("row accounting: dropped %d + analyzed %d != loaded %d",
			d.DroppedBeforeCutoff+d.DroppedNoImpact, d.RecordsAnalyzed, d.RowsLoaded)
	}
	if d.UnmatchedRecords == 0 && len(d.UnmatchedLabels) > 0 {
		p.errorf("unmatched labels listed (%d) but unmatched record count is zero", len(d.UnmatchedLabels))
	}
	if d.UnmatchedRecords > 0 && len(d.UnmatchedLabels) == 0 {
		p.errorf("%d unmatched records but no unmatched labels listed", d.UnmatchedRecords)
	}
	if d.DateParseFailures > d.DroppedBeforeCutoff {
		p.errorf("date parse failures (%d) exceed before-cutoff drops (%d); year-0 rows must fall to the cutoff",
			d.DateParseFailures, d.DroppedBeforeCutoff)
	}
	return p
}
