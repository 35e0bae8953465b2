// Command report runs the storm impact analysis once: it loads the Storm
// Events dataset, the damage multiplier table, and the canonical event-type
// vocabulary, runs the batch pipeline, prints the four ranked tables, and
// optionally writes the JSON report and a Prometheus metrics textfile.
//
// Configuration comes from environment variables (see internal/config);
// flags override the file paths:
//
//	report -storm-data data/StormData.csv.bz2 \
//	  -multipliers data/multipliers.csv \
//	  -vocab data/event_types.txt \
//	  -out report.json
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func main() {
	stormData := flag.String("storm-data", "", "events CSV path (overrides STORM_DATA_PATH)")
	multipliers := flag.String("multipliers", "", "multiplier table path (overrides MULTIPLIER_PATH)")
	vocab := flag.String("vocab", "", "canonical event-type list path (overrides VOCAB_PATH)")
	out := flag.String("out", "", "JSON report output path (overrides REPORT_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *stormData != "" {
		cfg.StormDataPath = *stormData
	}
	if *multipliers != "" {
		cfg.MultiplierPath = *multipliers
	}
	if *vocab != "" {
		cfg.VocabPath = *vocab
	}
	if *out != "" {
		cfg.ReportPath = *out
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	newMatcher := func(v domain.Vocabulary) domain.Matcher {
		return domain.NewLevenshteinMatcher(v, cfg.MatchMaxDistance)
	}
	p := pipeline.New(pipeline.NewFileInputs(cfg), newMatcher, logger, metrics, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := p.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	if err := report.WriteTables(os.Stdout); err != nil {
		logger.Error("writing tables failed", "error", err)
		os.Exit(1)
	}

	if cfg.ReportPath != "" {
		if err := report.WriteJSON(cfg.ReportPath); err != nil {
			logger.Error("writing report failed", "error", err, "path", cfg.ReportPath)
			os.Exit(1)
		}
		logger.Info("report written", "path", cfg.ReportPath)
	}

	if cfg.MetricsTextfile != "" {
		// Metrics are best-effort; a failed export doesn't invalidate the report.
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics textfile export failed", "error", err, "path", cfg.MetricsTextfile)
		} else {
			logger.Info("metrics written", "path", cfg.MetricsTextfile)
		}
	}
}
