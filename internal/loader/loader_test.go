package loader

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

const eventsCSV = `STATE,BGN_DATE,EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP
TX,4/18/1996 0:00:00,TSTM WIND,0.00,15.00,25.0,K,0.00,
FL,10/4/1995 0:00:00,HURRICANE OPAL,2.00,0.00,3.00,B,5.00,M
OK,not-a-date,TORNADO,1.00,3.00,0.00,,0.00,
IA,6/9/2008 0:00:00,RIVER FLOODING,0.00,0.00,150.00,M,20.00,K
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEvents(t *testing.T) {
	records, stats, err := LoadEvents(writeFile(t, "storm.csv", eventsCSV))
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 1, stats.DateParseFailures)

	assert.Equal(t, domain.EventRecord{
		Year: 1996, EventType: "TSTM WIND", Injuries: 15,
		PropertyDamageMagnitude: 25, PropertyDamageCode: "K",
	}, records[0])

	assert.Equal(t, 1995, records[1].Year)
	assert.Equal(t, "B", records[1].PropertyDamageCode)
	assert.Equal(t, "M", records[1].CropDamageCode)

	// Unparseable date loads with year 0 instead of dropping the row here.
	assert.Equal(t, 0, records[2].Year)
	assert.Equal(t, 1, records[2].Fatalities)
}

func TestLoadEvents_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(eventsCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	records, stats, err := LoadEvents(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, 4, stats.Rows)
}

func TestLoadEvents_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadEvents(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
	})

	t.Run("missing column", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "BGN_DATE,EVTYPE\n4/18/1996 0:00:00,HAIL\n")
		_, _, err := LoadEvents(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing column")
	})

	t.Run("malformed numeric field is fatal", func(t *testing.T) {
		path := writeFile(t, "bad.csv",
			"BGN_DATE,EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n"+
				"4/18/1996 0:00:00,HAIL,many,0,0,,0,\n")
		_, _, err := LoadEvents(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FATALITIES")
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestLoadMultipliers(t *testing.T) {
	path := writeFile(t, "multipliers.csv", "code,multiplier\nK,1e3\nM,1e6\nB,1e9\n\"\",1\n0,1\n")

	table, err := LoadMultipliers(path)
	require.NoError(t, err)

	assert.Equal(t, domain.MultiplierTable{
		"K": 1e3, "M": 1e6, "B": 1e9, "": 1, "0": 1,
	}, table)
}

func TestLoadMultipliers_Errors(t *testing.T) {
	t.Run("duplicate code", func(t *testing.T) {
		path := writeFile(t, "dup.csv", "code,multiplier\nK,1e3\nK,1000\n")
		_, err := LoadMultipliers(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate code")
	})

	t.Run("bad multiplier", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "code,multiplier\nK,thousand\n")
		_, err := LoadMultipliers(path)
		require.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "code,multiplier\n")
		_, err := LoadMultipliers(path)
		require.Error(t, err)
	})
}

func TestLoadVocabulary(t *testing.T) {
	path := writeFile(t, "vocab.txt", "FLOOD\nTORNADO\n\n  HAIL  \n")

	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, domain.Vocabulary{"FLOOD", "TORNADO", "HAIL"}, vocab)

	t.Run("empty file", func(t *testing.T) {
		empty := writeFile(t, "empty.txt", "\n\n")
		_, err := LoadVocabulary(empty)
		require.Error(t, err)
	})
}
