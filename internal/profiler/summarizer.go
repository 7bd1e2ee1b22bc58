package profiler

import (
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// NumberStats holds descriptive statistics for a numeric column. Quartiles
// use linear interpolation between order statistics; StdDev is the sample
// standard deviation (N-1 denominator).
type NumberStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
	Q1     float64
	Q3     float64
	IQR    float64
}

// TimeStats holds descriptive statistics for a temporal column. Median is
// computed on the underlying linear time value and rendered back in the zone
// observed on the column's first non-missing value.
type TimeStats struct {
	Earliest time.Time
	Latest   time.Time
	Median   time.Time
}

// FrequencyEntry is one retained row of a column's value-frequency table.
// Fraction is relative to the retained frequency mass, not the unfiltered
// column total.
type FrequencyEntry struct {
	Column   string
	Value    string
	Count    int
	Fraction float64
}

// ColumnSummary is the immutable per-column result. The stat blocks are nil
// unless the column's committed type matches and at least one value exists.
type ColumnSummary struct {
	Name          string
	Type          ColumnType
	MissingCount  int
	EmptyCount    int
	DistinctCount int
	Numbers       *NumberStats
	Times         *TimeStats
}

// SummaryOptions controls frequency-table filtering and truncation.
type SummaryOptions struct {
	// MinCellCount drops frequency entries seen fewer times; 1 disables the
	// filter.
	MinCellCount int
	// MaxDistinctValues truncates the table after sorting.
	MaxDistinctValues int
}

// Summarize reads a typed column once and produces its summary plus the
// retained frequency entries. A column with zero usable values yields zeroed
// counts and absent stat blocks rather than an error.
func Summarize(col *Column, opts SummaryOptions) (ColumnSummary, []FrequencyEntry, error) {
	sum := ColumnSummary{Name: col.Name, Type: col.Type}
	for i := 0; i < col.Len(); i++ {
		if col.Missing[i] {
			sum.MissingCount++
		}
		if col.Empty[i] {
			sum.EmptyCount++
		}
	}

	values := col.valueIndices()
	freq, distinct := frequencyTable(col, values, opts)
	sum.DistinctCount = distinct

	if len(values) == 0 {
		return sum, freq, nil
	}

	var err error
	switch col.Type {
	case TypeNumber:
		sum.Numbers, err = numberStats(col, values)
	case TypeTemporal:
		sum.Times = timeStats(col, values)
	}
	return sum, freq, err
}

// frequencyTable groups usable values by exact equality, filters by minimum
// count, sorts by count descending with ties broken by first-seen order, and
// truncates. It also reports the full distinct cardinality, measured before
// any filtering.
func frequencyTable(col *Column, values []int, opts SummaryOptions) ([]FrequencyEntry, int) {
	type bucket struct {
		value string
		count int
		first int
	}
	counts := make(map[string]*bucket)
	order := make([]*bucket, 0)
	for seen, i := range values {
		key := cellKey(col, i)
		b, ok := counts[key]
		if !ok {
			b = &bucket{value: key, first: seen}
			counts[key] = b
			order = append(order, b)
		}
		b.count++
	}
	distinct := len(order)

	retained := order[:0]
	for _, b := range order {
		if b.count >= opts.MinCellCount {
			retained = append(retained, b)
		}
	}
	sort.SliceStable(retained, func(i, j int) bool {
		if retained[i].count != retained[j].count {
			return retained[i].count > retained[j].count
		}
		return retained[i].first < retained[j].first
	})
	if opts.MaxDistinctValues > 0 && len(retained) > opts.MaxDistinctValues {
		retained = retained[:opts.MaxDistinctValues]
	}

	mass := 0
	for _, b := range retained {
		mass += b.count
	}
	entries := make([]FrequencyEntry, 0, len(retained))
	for _, b := range retained {
		entries = append(entries, FrequencyEntry{
			Column:   col.Name,
			Value:    b.value,
			Count:    b.count,
			Fraction: float64(b.count) / float64(mass),
		})
	}
	return entries, distinct
}

// cellKey renders a cell for grouping: typed value equality for number and
// date columns, exact text for the rest.
func cellKey(col *Column, i int) string {
	switch col.Type {
	case TypeNumber:
		return strconv.FormatFloat(col.Numbers[i], 'g', -1, 64)
	case TypeTemporal:
		return col.Times[i].Format("2006-01-02 15:04:05")
	default:
		return col.Raw[i]
	}
}

func numberStats(col *Column, values []int) (*NumberStats, error) {
	data := make([]float64, len(values))
	for k, i := range values {
		data[k] = col.Numbers[i]
	}

	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	stdDev := 0.0
	if len(data) > 1 {
		stdDev, err = stats.StandardDeviationSample(data)
		if err != nil {
			return nil, err
		}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)

	return &NumberStats{
		Min:    min,
		Max:    max,
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
	}, nil
}

func timeStats(col *Column, values []int) *TimeStats {
	loc := col.Times[values[0]].Location()
	if loc == nil {
		loc = time.UTC
	}

	instants := make([]int64, len(values))
	for k, i := range values {
		instants[k] = col.Times[i].UnixMilli()
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i] < instants[j] })

	n := len(instants)
	var medianMilli int64
	if n%2 == 1 {
		medianMilli = instants[n/2]
	} else {
		medianMilli = (instants[n/2-1] + instants[n/2]) / 2
	}

	return &TimeStats{
		Earliest: time.UnixMilli(instants[0]).In(loc),
		Latest:   time.UnixMilli(instants[n-1]).In(loc),
		Median:   time.UnixMilli(medianMilli).In(loc),
	}
}
