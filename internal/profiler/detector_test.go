package profiler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *Detector {
	return NewDetector(rand.New(rand.NewSource(1)))
}

func allPresent(n int) []bool {
	present := make([]bool, n)
	for i := range present {
		present[i] = true
	}
	return present
}

func TestDetectColumnNumeric(t *testing.T) {
	cells := []string{"1", "2.5", "-3", "4e2", "  17 ", "1,200"}
	col := NewColumn("amount", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	require.Equal(t, TypeNumber, col.Type)
	assert.Equal(t, []float64{1, 2.5, -3, 400, 17, 1200}, col.Numbers)
	for i := range cells {
		assert.False(t, col.Missing[i])
	}
}

func TestDetectColumnTextRoundTrip(t *testing.T) {
	cells := []string{"a", "b", "1"}
	col := NewColumn("code", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	assert.Equal(t, TypeText, col.Type)
	assert.Equal(t, cells, col.Raw)
	assert.Nil(t, col.Numbers)
	assert.Nil(t, col.Times)
}

func TestDetectColumnRevertsOnFullPassCorruption(t *testing.T) {
	// 9 of 10 cells parse, so the sample clears the 0.8 gate, but the full
	// pass would have to turn a non-empty cell into a missing one. The whole
	// column must fall back to text instead.
	cells := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "oops"}
	col := NewColumn("mixed", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	assert.Equal(t, TypeText, col.Type)
	assert.Nil(t, col.Numbers)
	for i := range cells {
		assert.False(t, col.Missing[i], "cell %d must not become missing", i)
	}
}

func TestDetectColumnTemporal(t *testing.T) {
	cells := []string{"2023-01-01", "2023-12-31", "2023-06-15", "2024-02-01"}
	col := NewColumn("visit_date", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	require.Equal(t, TypeTemporal, col.Type)
	want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, col.Times[0].Equal(want))
	assert.Equal(t, time.UTC, col.Times[0].Location())
}

func TestDetectColumnTemporalLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2023-01-02 13:45:59": time.Date(2023, 1, 2, 13, 45, 59, 0, time.UTC),
		"2023-01-02T13:45:59": time.Date(2023, 1, 2, 13, 45, 59, 0, time.UTC),
		"2023-01-02 13:45":    time.Date(2023, 1, 2, 13, 45, 0, 0, time.UTC),
		"2023/01/02":          time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		"01/02/2023":          time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		"02.01.2023":          time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	for cell, want := range cases {
		got, ok := parseDate(cell)
		require.True(t, ok, "expected %q to parse", cell)
		assert.True(t, got.Equal(want), "%q parsed to %v", cell, got)
	}

	_, ok := parseDate("not a date")
	assert.False(t, ok)
}

func TestDetectColumnTemporalFailuresBecomeMissing(t *testing.T) {
	// 8 of 10 parse: exactly at the 0.8 threshold on both the sampled and
	// the full pass, so the column commits and the two strays become missing.
	cells := []string{
		"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04",
		"2023-01-05", "2023-01-06", "2023-01-07", "2023-01-08",
		"n/a", "unknown",
	}
	col := NewColumn("when", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	require.Equal(t, TypeTemporal, col.Type)
	assert.True(t, col.Missing[8])
	assert.True(t, col.Missing[9])
}

func TestDetectColumnTemporalRevertsBelowThreshold(t *testing.T) {
	cells := []string{"2023-01-01", "2023-01-02", "maybe", "later", "soon"}
	col := NewColumn("when", cells, allPresent(len(cells)))

	newTestDetector().DetectColumn(col)

	assert.Equal(t, TypeText, col.Type)
	for i := range cells {
		assert.False(t, col.Missing[i])
	}
}

func TestDetectColumnEmptyStaysText(t *testing.T) {
	col := NewColumn("blank", []string{"", "", ""}, allPresent(3))

	newTestDetector().DetectColumn(col)

	assert.Equal(t, TypeText, col.Type)
	assert.Equal(t, 3, countTrue(col.Empty))
}

func TestDetectColumnSkipsMissingAndEmptyCells(t *testing.T) {
	cells := []string{"5", "10", "", "7", ""}
	present := []bool{true, true, false, true, true}
	col := NewColumn("value", cells, present)

	newTestDetector().DetectColumn(col)

	require.Equal(t, TypeNumber, col.Type)
	assert.True(t, col.Missing[2])
	assert.True(t, col.Empty[4])
	assert.Equal(t, 5.0, col.Numbers[0])
	assert.Equal(t, 7.0, col.Numbers[3])
}

func TestParseNumberRejectsNonFinite(t *testing.T) {
	for _, cell := range []string{"NaN", "Inf", "-Inf", "", "12x"} {
		_, ok := parseNumber(cell)
		assert.False(t, ok, "expected %q to be rejected", cell)
	}
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
