package profiler

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"

	"github.com/FritscheLab/whiteRRabbit/internal/reader"
)

// ErrEmptyFile marks a file with a header but no data rows. Callers keep the
// degraded zero-count report that accompanies it.
var ErrEmptyFile = errors.New("file contains no data rows")

// Options configures one profiling pass. The zero value is not useful; use
// DefaultOptions and override.
type Options struct {
	// RowBudget caps how many data rows are examined; negative means no cap.
	RowBudget int
	// MaxDistinctValues truncates each column's frequency table.
	MaxDistinctValues int
	// MinCellCount drops frequency entries seen fewer times.
	MinCellCount int
	// ExcludedColumns are dropped from summaries and frequency tables but
	// still count toward the field totals.
	ExcludedColumns []string
	// ShiftDates blurs temporal columns by a random per-cell day offset.
	ShiftDates bool
	// RandomSample picks the examined rows uniformly at random instead of
	// taking the first RowBudget rows.
	RandomSample bool
	// Seed drives all randomized decisions (row sampling, type-detection
	// sampling, date shifting) so a run is reproducible.
	Seed int64
	// Delimiter is the field separator; zero means sniff it from the file.
	Delimiter rune
}

// DefaultOptions mirrors the scan defaults: examine up to 100k random rows,
// keep at most 1000 values per column, hide values seen fewer than 5 times.
func DefaultOptions() Options {
	return Options{
		RowBudget:         100000,
		MaxDistinctValues: 1000,
		MinCellCount:      5,
		RandomSample:      true,
	}
}

// Validate rejects option combinations that cannot produce a meaningful
// report.
func (o Options) Validate() error {
	if o.MinCellCount < 1 {
		return fmt.Errorf("min cell count must be at least 1, got %d", o.MinCellCount)
	}
	if o.MaxDistinctValues < 1 {
		return fmt.Errorf("max distinct values must be at least 1, got %d", o.MaxDistinctValues)
	}
	return nil
}

// FileReport is the complete profiling result for one file.
type FileReport struct {
	FileName        string
	Path            string
	TotalRows       int
	RowsExamined    int
	FieldCount      int
	EmptyFieldCount int
	Columns         []ColumnSummary
	Frequencies     []FrequencyEntry
}

// ProfileFile profiles a single delimited file: count lines, plan the row
// set, read the planned rows, detect column types, optionally shift dates,
// and summarize every column. An unreadable file returns an error; a file
// with no data rows returns a degraded report alongside ErrEmptyFile.
func ProfileFile(path string, opts Options) (*FileReport, error) {
	report := &FileReport{
		FileName: filepath.Base(path),
		Path:     path,
	}

	lines, err := reader.CountLines(path)
	if err != nil {
		return nil, err
	}
	totalDataRows := lines - 1
	if totalDataRows < 0 {
		totalDataRows = 0
	}
	report.TotalRows = totalDataRows
	if lines <= 1 {
		return report, ErrEmptyFile
	}

	delimiter, err := reader.SniffDelimiter(path, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	plan := PlanRows(totalDataRows, opts.RowBudget, opts.RandomSample, rng)

	var indices []int
	if !plan.All {
		indices = plan.Indices
	}
	headers, rows, err := reader.ReadTable(path, delimiter, indices)
	if err != nil {
		return nil, err
	}

	table := NewTable(headers, rows)
	report.RowsExamined = table.RowCount()
	report.FieldCount = len(table.Columns)

	detector := NewDetector(rng)
	shifter := NewDateShifter(rng)
	excluded := toSet(opts.ExcludedColumns)
	summaryOpts := SummaryOptions{
		MinCellCount:      opts.MinCellCount,
		MaxDistinctValues: opts.MaxDistinctValues,
	}

	for _, col := range table.Columns {
		if isEmptyField(col) {
			report.EmptyFieldCount++
		}
		if _, skip := excluded[col.Name]; skip {
			continue
		}

		detector.DetectColumn(col)
		if opts.ShiftDates {
			shifter.Shift(col)
		}

		summary, freq, err := Summarize(col, summaryOpts)
		if err != nil {
			// A failed column degrades to counts-only; the file goes on.
			log.Printf("[WARN] summarization failed for column %s in %s: %v",
				col.Name, report.FileName, err)
			summary = ColumnSummary{
				Name:         col.Name,
				Type:         col.Type,
				MissingCount: summary.MissingCount,
				EmptyCount:   summary.EmptyCount,
			}
			freq = nil
		}
		report.Columns = append(report.Columns, summary)
		report.Frequencies = append(report.Frequencies, freq...)
	}

	return report, nil
}

// isEmptyField reports whether a column carries no value in any examined row.
func isEmptyField(col *Column) bool {
	for i := 0; i < col.Len(); i++ {
		if col.hasValue(i) {
			return false
		}
	}
	return true
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
