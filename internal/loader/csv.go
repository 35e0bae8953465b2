// Package loader reads the three pipeline inputs: the Storm Events CSV, the
// damage-exponent multiplier table, and the canonical event-type vocabulary.
package loader

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// beginDateLayout matches the BGN_DATE column, e.g. "4/18/1996 0:00:00".
const beginDateLayout = "1/2/2006 15:04:05"

// eventColumns are the header names this analysis reads; every other column
// in the dataset is ignored.
var eventColumns = []string{
	"BGN_DATE", "EVTYPE", "FATALITIES", "INJURIES",
	"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP",
}

// LoadStats describes what the event loader saw.
type LoadStats struct {
	Rows int

	// DateParseFailures counts rows whose BGN_DATE would not parse. They
	// load with Year 0 and fall to the cutoff filter; the count makes that
	// loss explicit instead of a silent side effect of filtering.
	DateParseFailures int
}

// LoadEvents reads the full Storm Events dataset into memory. The file may be
// plain, gzip- or bzip2-compressed (by extension). Malformed numeric fields
// and CSV structure errors are fatal; only date-parse failures are tolerated,
// and those are counted in the returned stats.
func LoadEvents(path string) ([]domain.EventRecord, LoadStats, error) {
	var stats LoadStats

	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, stats, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header of %s: %w", path, err)
	}
	colIdx, err := indexColumns(header, eventColumns)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}

	var records []domain.EventRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read %s line %d: %w", path, line, err)
		}

		rec, dateOK, err := parseEventRow(row, colIdx)
		if err != nil {
			return nil, stats, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		if !dateOK {
			stats.DateParseFailures++
		}
		records = append(records, rec)
	}

	stats.Rows = len(records)
	return records, stats, nil
}

// parseEventRow extracts the eight columns of interest. dateOK is false when
// BGN_DATE would not parse, leaving Year 0.
func parseEventRow(row []string, colIdx map[string]int) (domain.EventRecord, bool, error) {
	get := func(col string) string {
		i := colIdx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := domain.EventRecord{EventType: get("EVTYPE")}

	dateOK := true
	if t, err := time.Parse(beginDateLayout, get("BGN_DATE")); err != nil {
		dateOK = false
	} else {
		rec.Year = t.Year()
	}

	var err error
	if rec.Fatalities, err = parseCount(get("FATALITIES")); err != nil {
		return rec, dateOK, fmt.Errorf("FATALITIES: %w", err)
	}
	if rec.Injuries, err = parseCount(get("INJURIES")); err != nil {
		return rec, dateOK, fmt.Errorf("INJURIES: %w", err)
	}
	if rec.PropertyDamageMagnitude, err = parseMagnitude(get("PROPDMG")); err != nil {
		return rec, dateOK, fmt.Errorf("PROPDMG: %w", err)
	}
	if rec.CropDamageMagnitude, err = parseMagnitude(get("CROPDMG")); err != nil {
		return rec, dateOK, fmt.Errorf("CROPDMG: %w", err)
	}
	rec.PropertyDamageCode = get("PROPDMGEXP")
	rec.CropDamageCode = get("CROPDMGEXP")

	return rec, dateOK, nil
}

// parseCount reads a casualty figure. The dataset stores counts with a
// decimal point ("15.00"), so parse as float and truncate.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseMagnitude(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// indexColumns maps required column names to their header positions.
func indexColumns(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return idx, nil
}

// openMaybeCompressed opens path, transparently decompressing .gz and .bz2.
func openMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		return &wrappedReadCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".bz2":
		return &wrappedReadCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

type wrappedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (w *wrappedReadCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
