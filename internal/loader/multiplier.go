package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// LoadMultipliers reads the damage-exponent lookup table, a CSV with columns
// {code, multiplier}. Codes are kept as-is (case-sensitive, blank allowed);
// a duplicate code is an error since last-wins would hide a broken table.
func LoadMultipliers(path string) (domain.MultiplierTable, error) {
	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	colIdx, err := indexColumns(header, []string{"code", "multiplier"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	table := domain.MultiplierTable{}
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}

		code := row[colIdx["code"]]
		mult, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx["multiplier"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s line %d: multiplier for code %q: %w", path, line, code, err)
		}
		if _, exists := table[code]; exists {
			return nil, fmt.Errorf("%s line %d: duplicate code %q", path, line, code)
		}
		table[code] = mult
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%s: no multiplier entries", path)
	}
	return table, nil
}
