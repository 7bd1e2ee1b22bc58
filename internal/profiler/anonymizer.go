package profiler

import "math/rand"

// maxShiftDays bounds the anonymizing day offset in either direction.
const maxShiftDays = 5

// DateShifter blurs temporal columns for privacy: every non-missing cell is
// moved by an independently drawn whole number of days in [-5, +5]. The
// offset is drawn per cell, not per column, so row-level linkage across
// shifted columns is broken as well.
type DateShifter struct {
	rng *rand.Rand
}

// NewDateShifter returns a shifter driven by the given random source.
func NewDateShifter(rng *rand.Rand) *DateShifter {
	return &DateShifter{rng: rng}
}

// Shift mutates a temporal column in place. Non-temporal columns and missing
// cells are left untouched. Shift must run exactly once per profiling pass,
// after typing and before summarization, so statistics reflect the shifted
// values.
func (s *DateShifter) Shift(col *Column) {
	if col.Type != TypeTemporal {
		return
	}
	for i := range col.Times {
		if col.Missing[i] || col.Empty[i] {
			continue
		}
		days := s.rng.Intn(2*maxShiftDays+1) - maxShiftDays
		col.Times[i] = col.Times[i].AddDate(0, 0, days)
	}
}
