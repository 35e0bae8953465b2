// Command genfixture generates deterministic sample inputs for the storm
// impact pipeline: a synthetic events CSV with realistic EVTYPE noise, the
// damage multiplier table, the canonical event-type vocabulary, and the
// expected report JSON produced by running the actual pipeline over them.
//
// Usage:
//
//	go run ./cmd/genfixture -out-dir data/sample -rows 500
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

// vocabulary is the 48-entry official event-type list (NWS Directive 10-1605).
var vocabulary = []string{
	"ASTRONOMICAL LOW TIDE", "AVALANCHE", "BLIZZARD", "COASTAL FLOOD",
	"COLD/WIND CHILL", "DEBRIS FLOW", "DENSE FOG", "DENSE SMOKE", "DROUGHT",
	"DUST DEVIL", "DUST STORM", "EXCESSIVE HEAT", "EXTREME COLD/WIND CHILL",
	"FLASH FLOOD", "FLOOD", "FROST/FREEZE", "FUNNEL CLOUD", "FREEZING FOG",
	"HAIL", "HEAT", "HEAVY RAIN", "HEAVY SNOW", "HIGH SURF", "HIGH WIND",
	"HURRICANE (TYPHOON)", "ICE STORM", "LAKE-EFFECT SNOW", "LAKESHORE FLOOD",
	"LIGHTNING", "MARINE HAIL", "MARINE HIGH WIND", "MARINE STRONG WIND",
	"MARINE THUNDERSTORM WIND", "RIP CURRENT", "SEICHE", "SLEET",
	"STORM SURGE/TIDE", "STRONG WIND", "THUNDERSTORM WIND", "TORNADO",
	"TROPICAL DEPRESSION", "TROPICAL STORM", "TSUNAMI", "VOLCANIC ASH",
	"WATERSPOUT", "WILDFIRE", "WINTER STORM", "WINTER WEATHER",
}

// labelPool mimics the hand-entered EVTYPE noise of the real dataset:
// abbreviations, qualifiers, plurals, and a couple of labels nothing matches.
var labelPool = []string{
	"TSTM WIND", "TSTM WIND/HAIL", "MARINE TSTM WIND", "THUNDERSTORM WINDS",
	"RIVER FLOODING", "URBAN FLD", "FLASH FLOODING", "COASTAL FLOODING",
	"HURRICANE OPAL", "HURRICANE ERIN", "WILD/FOREST FIRE", "BRUSH FIRE",
	"WINTER STORM", "WINTER WEATHER/MIX", "HEAVY SNOW", "ICE STORM",
	"TORNADO", "HAIL", "EXCESSIVE HEAT", "HEAT WAVE", "LIGHTNING",
	"RIP CURRENTS", "HIGH WINDS", "AVALANCHE", "BLIZZARD",
	"DAM BREAK", "LANDSLUMP", // no acceptably close vocabulary entry
}

// codePool weights the exponent codes roughly like the dataset: K dominates,
// "?" has no table entry and exercises the undefined-cost path.
var codePool = []string{"K", "K", "K", "K", "M", "M", "B", "", "", "5", "?"}

var states = []string{"TX", "OK", "FL", "IA", "KS", "AL", "MO", "LA", "NE", "CO"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/sample", "directory for generated fixture files")
	rows := flag.Int("rows", 500, "number of event rows to generate")
	seed := flag.Int64("seed", 1, "PRNG seed (fixtures are reproducible per seed)")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))

	eventsPath := filepath.Join(*outDir, "storm_events.csv")
	if err := writeEventsCSV(eventsPath, rng, *rows); err != nil {
		return fmt.Errorf("writing events CSV: %w", err)
	}
	log.Printf("wrote %d event rows: %s", *rows, eventsPath)

	multiplierPath := filepath.Join(*outDir, "multipliers.csv")
	if err := writeMultipliers(multiplierPath); err != nil {
		return fmt.Errorf("writing multiplier table: %w", err)
	}
	log.Printf("wrote multiplier table: %s", multiplierPath)

	vocabPath := filepath.Join(*outDir, "event_types.txt")
	if err := writeVocabulary(vocabPath); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	log.Printf("wrote vocabulary (%d entries): %s", len(vocabulary), vocabPath)

	reportPath := filepath.Join(*outDir, "report.json")
	if err := writeExpectedReport(reportPath, eventsPath, multiplierPath, vocabPath); err != nil {
		return fmt.Errorf("writing expected report: %w", err)
	}
	log.Printf("wrote expected report: %s", reportPath)

	return nil
}

func writeEventsCSV(path string, rng *rand.Rand, rows int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	header := []string{"STATE", "BGN_DATE", "EVTYPE", "FATALITIES", "INJURIES",
		"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP"}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for i := 0; i < rows; i++ {
		if err := w.Write(eventRow(rng, i)); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// eventRow generates one CSV row. Years span 1991-2011 so the 1996 cutoff
// has something to drop; roughly one row in eighty gets a corrupt date.
func eventRow(rng *rand.Rand, i int) []string {
	year := 1991 + rng.Intn(21)
	date := fmt.Sprintf("%d/%d/%d 0:00:00", 1+rng.Intn(12), 1+rng.Intn(28), year)
	if i%80 == 79 {
		date = "??"
	}

	label := labelPool[rng.Intn(len(labelPool))]

	// Most rows have no casualties; impact is sparse like the real data.
	var fatalities, injuries int
	if rng.Intn(10) == 0 {
		fatalities = rng.Intn(4)
	}
	if rng.Intn(5) == 0 {
		injuries = rng.Intn(40)
	}

	var propMag, cropMag float64
	propCode, cropCode := "", ""
	if rng.Intn(3) != 0 {
		propMag = float64(rng.Intn(5000)) / 10
		propCode = codePool[rng.Intn(len(codePool))]
	}
	if rng.Intn(6) == 0 {
		cropMag = float64(rng.Intn(1000)) / 10
		cropCode = codePool[rng.Intn(len(codePool))]
	}

	return []string{
		states[rng.Intn(len(states))],
		date,
		label,
		fmt.Sprintf("%d.00", fatalities),
		fmt.Sprintf("%d.00", injuries),
		fmt.Sprintf("%.2f", propMag),
		propCode,
		fmt.Sprintf("%.2f", cropMag),
		cropCode,
	}
}

func writeMultipliers(path string) error {
	var sb strings.Builder
	sb.WriteString("code,multiplier\n")
	sb.WriteString("\"\",1\n")
	sb.WriteString("K,1e3\nM,1e6\nB,1e9\nH,1e2\n")
	for d := 0; d <= 8; d++ {
		fmt.Fprintf(&sb, "%d,1e%d\n", d, d)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o600)
}

func writeVocabulary(path string) error {
	return os.WriteFile(path, []byte(strings.Join(vocabulary, "\n")+"\n"), 0o600)
}

// writeExpectedReport runs the actual pipeline over the generated inputs
// under a fixed clock, so the fixture report matches real behavior.
func writeExpectedReport(path, eventsPath, multiplierPath, vocabPath string) error {
	pipeline.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.January, 2, 6, 0, 0, 0, time.UTC),
	))
	defer pipeline.SetClock(nil)

	cfg := &config.Config{
		StormDataPath:    eventsPath,
		MultiplierPath:   multiplierPath,
		VocabPath:        vocabPath,
		CutoffYear:       1996,
		TopN:             10,
		MatchMaxDistance: 5,
		Workers:          1,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newMatcher := func(v domain.Vocabulary) domain.Matcher {
		return domain.NewLevenshteinMatcher(v, cfg.MatchMaxDistance)
	}
	p := pipeline.New(pipeline.NewFileInputs(cfg), newMatcher, logger,
		observability.NewMetrics(), cfg)

	report, err := p.Run(context.Background())
	if err != nil {
		return err
	}
	// Pin the randomly assigned run ID so the fixture is reproducible.
	report.RunID = "fixture"

	printStats(report)
	return report.WriteJSON(path)
}

func printStats(report *pipeline.Report) {
	d := report.Diagnostics
	log.Printf("rows=%d analyzed=%d before_cutoff=%d no_impact=%d date_failures=%d",
		d.RowsLoaded, d.RecordsAnalyzed, d.DroppedBeforeCutoff, d.DroppedNoImpact, d.DateParseFailures)
	log.Printf("rewritten=%d unmatched=%d (%v) undefined_costs=%d groups=%d",
		d.LabelsRewritten, d.UnmatchedRecords, d.UnmatchedLabels, d.UndefinedCosts, d.EventTypeGroups)
	log.Printf("totals: fatalities=%d injuries=%d", report.Totals.Fatalities, report.Totals.Injuries)
}
