package profiler

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// columnState tracks a column through detection. Detection starts every
// column at stateUnknown and always ends in one of the three terminal states.
type columnState int

const (
	stateUnknown columnState = iota
	stateNumericCandidate
	stateDateCandidate
	stateNumeric
	stateTemporal
	stateText
)

// dateLayouts is the ordered list of recognized templates. Year-month-day
// variants come first, then month-day-year, then day-month-year; each order
// carries optional time-of-day and an ISO "T"-separated variant. The first
// layout that parses a given cell wins for that cell.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"01-02-2006",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

// Detector infers a uniform type for each column using sampled success-rate
// gating. Sampling is driven by the injected random source so detection is
// reproducible under a fixed seed.
type Detector struct {
	// SuccessThreshold is the minimum fraction of a sample that must coerce
	// for a type family to be accepted for the full column.
	SuccessThreshold float64
	// SampleSize bounds how many non-empty cells are inspected before
	// committing to a full-column pass.
	SampleSize int

	rng *rand.Rand
}

// NewDetector returns a detector with the default 0.8 threshold and a
// 1000-cell sample bound.
func NewDetector(rng *rand.Rand) *Detector {
	return &Detector{
		SuccessThreshold: 0.8,
		SampleSize:       1000,
		rng:              rng,
	}
}

// DetectColumn decides the column's type and retypes it in place. Columns
// with no usable values stay text.
func (d *Detector) DetectColumn(col *Column) {
	values := col.valueIndices()
	if len(values) == 0 {
		col.Type = TypeText
		return
	}

	state := stateNumericCandidate
	sample := sampleIndices(values, d.SampleSize, d.rng)

	if d.numericSampleRate(col, sample) >= d.SuccessThreshold {
		if d.commitNumeric(col) {
			state = stateNumeric
		} else {
			// Full-pass corruption: fall through to text, not to dates. A
			// column that is 80% numeric on sample but not fully numeric is
			// not a date column either.
			state = stateText
		}
	} else {
		state = stateDateCandidate
	}

	if state == stateDateCandidate {
		if d.dateSampleRate(col, sample) >= d.SuccessThreshold && d.commitTemporal(col, values) {
			state = stateTemporal
		} else {
			state = stateText
		}
	}

	switch state {
	case stateNumeric:
		col.Type = TypeNumber
	case stateTemporal:
		col.Type = TypeTemporal
	default:
		col.Type = TypeText
	}
}

func (d *Detector) numericSampleRate(col *Column, sample []int) float64 {
	ok := 0
	for _, i := range sample {
		if _, parsed := parseNumber(col.Raw[i]); parsed {
			ok++
		}
	}
	return float64(ok) / float64(len(sample))
}

// commitNumeric coerces the entire column. Any originally non-empty cell
// that fails to parse reverts the whole column to text: partial numeric
// success over the full column is not trusted silently.
func (d *Detector) commitNumeric(col *Column) bool {
	numbers := make([]float64, col.Len())
	for i := 0; i < col.Len(); i++ {
		if !col.hasValue(i) {
			continue
		}
		v, ok := parseNumber(col.Raw[i])
		if !ok {
			return false
		}
		numbers[i] = v
	}
	col.Numbers = numbers
	return true
}

func (d *Detector) dateSampleRate(col *Column, sample []int) float64 {
	ok := 0
	for _, i := range sample {
		if _, parsed := parseDate(col.Raw[i]); parsed {
			ok++
		}
	}
	return float64(ok) / float64(len(sample))
}

// commitTemporal parses the full column and re-checks the success rate over
// all usable cells. The second, global check guards against a sample that is
// not representative; below threshold the column reverts to text entirely.
// Accepted, individually-failing cells become missing.
func (d *Detector) commitTemporal(col *Column, values []int) bool {
	times := make([]time.Time, col.Len())
	failed := make([]int, 0)
	ok := 0
	for _, i := range values {
		t, parsed := parseDate(col.Raw[i])
		if !parsed {
			failed = append(failed, i)
			continue
		}
		times[i] = t
		ok++
	}
	if float64(ok)/float64(len(values)) < d.SuccessThreshold {
		return false
	}
	col.Times = times
	for _, i := range failed {
		col.Missing[i] = true
	}
	return true
}

// parseNumber coerces a text cell to a float. Leading/trailing space and
// thousands separators are tolerated; infinities and NaN are rejected so a
// committed numeric column never carries non-finite values.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseDate tries each recognized layout in order, in UTC when the cell
// carries no zone of its own.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
