// Package config reads run settings from environment variables; cmd/report
// flags can override the input paths afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	// Input files.
	StormDataPath  string // events CSV (plain, .gz, or .bz2)
	MultiplierPath string // damage exponent code table
	VocabPath      string // canonical event-type list, one per line

	CutoffYear       int
	TopN             int
	MatchMaxDistance int
	Workers          int

	LogLevel  string
	LogFormat string

	// ReportPath receives the JSON report; empty means stdout tables only.
	// MetricsTextfile receives Prometheus textfile-collector output; empty
	// disables the export.
	ReportPath      string
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cutoffYear, err := envInt("CUTOFF_YEAR", 1996)
	if err != nil {
		return nil, err
	}
	topN, err := envInt("TOP_N", 10)
	if err != nil {
		return nil, err
	}
	maxDistance, err := envInt("MATCH_MAX_DISTANCE", 5)
	if err != nil {
		return nil, err
	}
	workers, err := envInt("WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StormDataPath:    envOrDefault("STORM_DATA_PATH", "data/StormData.csv.bz2"),
		MultiplierPath:   envOrDefault("MULTIPLIER_PATH", "data/multipliers.csv"),
		VocabPath:        envOrDefault("VOCAB_PATH", "data/event_types.txt"),
		CutoffYear:       cutoffYear,
		TopN:             topN,
		MatchMaxDistance: maxDistance,
		Workers:          workers,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ReportPath:       os.Getenv("REPORT_PATH"),
		MetricsTextfile:  os.Getenv("METRICS_TEXTFILE"),
	}

	if cfg.StormDataPath == "" {
		return nil, errors.New("STORM_DATA_PATH is required")
	}
	if cfg.MultiplierPath == "" {
		return nil, errors.New("MULTIPLIER_PATH is required")
	}
	if cfg.VocabPath == "" {
		return nil, errors.New("VOCAB_PATH is required")
	}
	if cfg.TopN <= 0 {
		return nil, errors.New("TOP_N must be positive")
	}
	if cfg.MatchMaxDistance < 0 {
		return nil, errors.New("MATCH_MAX_DISTANCE must not be negative")
	}
	if cfg.Workers <= 0 {
		return nil, errors.New("WORKERS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
