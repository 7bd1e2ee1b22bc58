package profiler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateShifterStaysWithinFiveDays(t *testing.T) {
	cells := []string{
		"2023-01-01", "2023-03-15", "2023-06-30", "2023-09-10",
		"2023-11-05", "2023-12-24", "2024-01-01", "2024-02-29",
	}
	col := NewColumn("birth_date", cells, allPresent(len(cells)))
	newTestDetector().DetectColumn(col)
	require.Equal(t, TypeTemporal, col.Type)

	originals := append([]time.Time(nil), col.Times...)
	NewDateShifter(rand.New(rand.NewSource(99))).Shift(col)

	shiftedAny := false
	for i := range col.Times {
		diff := col.Times[i].Sub(originals[i])
		days := diff.Hours() / 24
		assert.LessOrEqual(t, days, 5.0)
		assert.GreaterOrEqual(t, days, -5.0)
		assert.Zero(t, diff%(24*time.Hour), "shift must be whole days")
		if diff != 0 {
			shiftedAny = true
		}
	}
	assert.True(t, shiftedAny, "expected at least one cell to move")
}

func TestDateShifterKeepsMissingMissing(t *testing.T) {
	cells := []string{
		"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04",
		"2023-01-05", "2023-01-06", "2023-01-07", "2023-01-08",
		"bogus", "",
	}
	col := NewColumn("when", cells, allPresent(len(cells)))
	newTestDetector().DetectColumn(col)
	require.Equal(t, TypeTemporal, col.Type)
	require.True(t, col.Missing[8])

	NewDateShifter(rand.New(rand.NewSource(5))).Shift(col)

	assert.True(t, col.Missing[8])
	assert.True(t, col.Times[8].IsZero())
	assert.True(t, col.Empty[9])
	assert.True(t, col.Times[9].IsZero())
}

func TestDateShifterIgnoresNonTemporalColumns(t *testing.T) {
	cells := []string{"1", "2", "3"}
	col := NewColumn("n", cells, allPresent(3))
	newTestDetector().DetectColumn(col)
	require.Equal(t, TypeNumber, col.Type)

	NewDateShifter(rand.New(rand.NewSource(1))).Shift(col)
	assert.Equal(t, []float64{1, 2, 3}, col.Numbers)
}
