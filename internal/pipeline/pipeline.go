// Package pipeline runs the storm impact analysis: load, filter, normalize,
// price, aggregate, rank. One batch pass, stages in fixed order, data flowing
// strictly forward.
package pipeline

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/loader"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// Inputs bundles everything a run reads: the event records, load diagnostics,
// the multiplier table, and the match vocabulary.
type Inputs struct {
	Events      []domain.EventRecord
	LoadStats   loader.LoadStats
	Multipliers domain.MultiplierTable
	Vocabulary  domain.Vocabulary
}

// InputReader materializes the run inputs. The file implementation is
// FileInputs; tests inject in-memory data.
type InputReader interface {
	ReadInputs(ctx context.Context) (Inputs, error)
}

// NewMatcherFunc builds the fuzzy matcher once the vocabulary is known,
// keeping the distance algorithm swappable.
type NewMatcherFunc func(domain.Vocabulary) domain.Matcher

// Pipeline orchestrates the batch stages with logging and metrics.
type Pipeline struct {
	inputs     InputReader
	newMatcher NewMatcherFunc
	logger     *slog.Logger
	metrics    *observability.Metrics

	cutoffYear int
	topN       int
	workers    int
}

// New creates a Pipeline from its stages and run settings.
func New(inputs InputReader, newMatcher NewMatcherFunc, logger *slog.Logger, metrics *observability.Metrics, cfg *config.Config) *Pipeline {
	return &Pipeline{
		inputs:     inputs,
		newMatcher: newMatcher,
		logger:     logger,
		metrics:    metrics,
		cutoffYear: cfg.CutoffYear,
		topN:       cfg.TopN,
		workers:    cfg.Workers,
	}
}

// Run executes one complete pass and returns the report. Any input error is
// fatal; per-record data problems become diagnostics on the report instead.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := clock.Now()

	logger.Info("pipeline started",
		"cutoff_year", p.cutoffYear, "top_n", p.topN, "workers", p.workers)

	// Load.
	loadStart := time.Now()
	in, err := p.inputs.ReadInputs(ctx)
	if err != nil {
		return nil, err
	}
	p.observeStage("load", loadStart)
	p.metrics.RecordsLoaded.Add(float64(in.LoadStats.Rows))
	p.metrics.DateParseFailures.Add(float64(in.LoadStats.DateParseFailures))
	logger.Info("inputs loaded",
		"rows", in.LoadStats.Rows,
		"multiplier_codes", len(in.Multipliers),
		"vocabulary_size", len(in.Vocabulary))
	if in.LoadStats.DateParseFailures > 0 {
		// These rows carry year 0 and will fall to the cutoff filter.
		logger.Warn("rows with unparseable begin dates",
			"count", in.LoadStats.DateParseFailures)
	}

	// Filter.
	filterStart := time.Now()
	records, fstats := domain.Filter(in.Events, p.cutoffYear)
	p.observeStage("filter", filterStart)
	p.metrics.RecordsDropped.WithLabelValues("before_cutoff").Add(float64(fstats.BeforeCutoff))
	p.metrics.RecordsDropped.WithLabelValues("no_impact").Add(float64(fstats.NoImpact))
	p.metrics.RecordsKept.Add(float64(fstats.Kept))
	logger.Info("records filtered",
		"kept", fstats.Kept,
		"before_cutoff", fstats.BeforeCutoff,
		"no_impact", fstats.NoImpact)

	// Normalize: rewrite rule chain, then fuzzy match. Records are
	// independent, so the pass fans out across workers.
	normStart := time.Now()
	matcher := p.newMatcher(in.Vocabulary)
	var rewritten, unmatched atomic.Int64
	var unmatchedMu sync.Mutex
	unmatchedLabels := map[string]struct{}{}

	err = p.forEachRecord(ctx, records, func(r *domain.EventRecord) {
		label, changed := domain.RewrittenLabel(r.EventType)
		if changed {
			rewritten.Add(1)
		}
		if canonical, ok := matcher.Match(label); ok {
			r.EventType = canonical
			r.Matched = true
			return
		}
		r.EventType = label
		unmatched.Add(1)
		unmatchedMu.Lock()
		unmatchedLabels[label] = struct{}{}
		unmatchedMu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	p.observeStage("normalize", normStart)
	p.metrics.LabelsRewritten.Add(float64(rewritten.Load()))
	p.metrics.LabelsUnmatched.Add(float64(unmatched.Load()))
	logger.Info("labels normalized",
		"rewritten", rewritten.Load(),
		"unmatched_records", unmatched.Load(),
		"unmatched_labels", len(unmatchedLabels))

	// Price damage. Same fan-out; unresolvable exponent codes leave NaN.
	costStart := time.Now()
	var undefinedCosts atomic.Int64
	err = p.forEachRecord(ctx, records, func(r *domain.EventRecord) {
		*r = domain.PriceDamage(*r, in.Multipliers)
		if math.IsNaN(r.PropertyDamageUSD) {
			undefinedCosts.Add(1)
		}
		if math.IsNaN(r.CropDamageUSD) {
			undefinedCosts.Add(1)
		}
	})
	if err != nil {
		return nil, err
	}
	p.observeStage("cost", costStart)
	p.metrics.UndefinedCosts.Add(float64(undefinedCosts.Load()))

	// Aggregate. Sequential on purpose: this is the synchronization barrier
	// between the per-record stages and the ranking.
	aggStart := time.Now()
	agg := domain.NewAggregator()
	for _, r := range records {
		agg.Add(r)
	}
	groups := agg.Records()
	p.observeStage("aggregate", aggStart)
	p.metrics.EventTypeGroups.Set(float64(len(groups)))
	logger.Info("records aggregated", "groups", len(groups))

	// Rank.
	rankStart := time.Now()
	rankings := Rankings{}
	if rankings.Fatalities, err = domain.TopN(groups, domain.MeasureFatalities, p.topN); err != nil {
		return nil, err
	}
	if rankings.Injuries, err = domain.TopN(groups, domain.MeasureInjuries, p.topN); err != nil {
		return nil, err
	}
	if rankings.PropertyDamage, err = domain.TopN(groups, domain.MeasurePropertyDamage, p.topN); err != nil {
		return nil, err
	}
	if rankings.CropDamage, err = domain.TopN(groups, domain.MeasureCropDamage, p.topN); err != nil {
		return nil, err
	}
	p.observeStage("rank", rankStart)

	report := &Report{
		RunID:       runID,
		GeneratedAt: clock.Now(),
		CutoffYear:  p.cutoffYear,
		TopN:        p.topN,
		Diagnostics: Diagnostics{
			RowsLoaded:          in.LoadStats.Rows,
			DateParseFailures:   in.LoadStats.DateParseFailures,
			DroppedBeforeCutoff: fstats.BeforeCutoff,
			DroppedNoImpact:     fstats.NoImpact,
			RecordsAnalyzed:     fstats.Kept,
			LabelsRewritten:     int(rewritten.Load()),
			UnmatchedRecords:    int(unmatched.Load()),
			UnmatchedLabels:     sortedKeys(unmatchedLabels),
			UndefinedCosts:      int(undefinedCosts.Load()),
			EventTypeGroups:     len(groups),
		},
		Totals:   totalsOf(groups),
		Rankings: rankings,
	}

	logger.Info("pipeline complete",
		"groups", len(groups),
		"duration", clock.Since(start).String())
	return report, nil
}

// forEachRecord applies fn to every record in place, fanned out across the
// configured worker count in contiguous chunks.
func (p *Pipeline) forEachRecord(ctx context.Context, records []domain.EventRecord, fn func(*domain.EventRecord)) error {
	workers := p.workers
	if workers < 1 {
		workers = 1
	}
	if len(records) == 0 {
		return nil
	}

	chunk := (len(records) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for begin := 0; begin < len(records); begin += chunk {
		end := begin + chunk
		if end > len(records) {
			end = len(records)
		}
		part := records[begin:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range part {
				fn(&part[i])
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
