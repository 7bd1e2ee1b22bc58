// Package report renders finished file profiles into a scan report, either
// as an xlsx workbook or as plain tab-separated tables. It never computes
// anything; it only lays out what the profiler produced.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/FritscheLab/whiteRRabbit/internal/profiler"
)

const (
	sheetOverview = "Overview"
	sheetFields   = "Fields"
	sheetValues   = "Values"
)

var overviewHeader = []interface{}{
	"File", "Total rows", "Rows examined", "Fields", "Empty fields",
}

var fieldsHeader = []interface{}{
	"File", "Field", "Type", "Missing", "Empty", "Distinct",
	"Min", "Max", "Mean", "StdDev", "Median", "Q1", "Q3", "IQR",
	"Earliest", "Latest", "Median date",
}

var valuesHeader = []interface{}{"File", "Field", "Value", "Count", "Fraction"}

// WriteWorkbook writes all reports into a single xlsx workbook with an
// overview sheet, a per-field statistics sheet, and a value-frequency sheet.
func WriteWorkbook(path string, reports []*profiler.FileReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetFields, sheetValues} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeRow(f, sheetOverview, 1, overviewHeader); err != nil {
		return err
	}
	if err := writeRow(f, sheetFields, 1, fieldsHeader); err != nil {
		return err
	}
	if err := writeRow(f, sheetValues, 1, valuesHeader); err != nil {
		return err
	}

	overviewRow, fieldRow, valueRow := 2, 2, 2
	for _, rep := range reports {
		if err := writeRow(f, sheetOverview, overviewRow, overviewCells(rep)); err != nil {
			return err
		}
		overviewRow++

		for _, col := range rep.Columns {
			if err := writeRow(f, sheetFields, fieldRow, fieldCells(rep.FileName, col)); err != nil {
				return err
			}
			fieldRow++
		}
		for _, entry := range rep.Frequencies {
			cells := []interface{}{
				rep.FileName, entry.Column, entry.Value, entry.Count, entry.Fraction,
			}
			if err := writeRow(f, sheetValues, valueRow, cells); err != nil {
				return err
			}
			valueRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func overviewCells(rep *profiler.FileReport) []interface{} {
	return []interface{}{
		rep.FileName, rep.TotalRows, rep.RowsExamined,
		rep.FieldCount, rep.EmptyFieldCount,
	}
}

// fieldCells flattens one column summary. Stat cells for the other type
// family stay blank rather than zero so absent is distinguishable in the
// sheet.
func fieldCells(fileName string, col profiler.ColumnSummary) []interface{} {
	cells := []interface{}{
		fileName, col.Name, col.Type.String(),
		col.MissingCount, col.EmptyCount, col.DistinctCount,
	}
	if col.Numbers != nil {
		n := col.Numbers
		cells = append(cells, n.Min, n.Max, n.Mean, n.StdDev, n.Median, n.Q1, n.Q3, n.IQR)
	} else {
		cells = append(cells, "", "", "", "", "", "", "", "")
	}
	if col.Times != nil {
		t := col.Times
		cells = append(cells,
			formatInstant(t.Earliest), formatInstant(t.Latest), formatInstant(t.Median))
	} else {
		cells = append(cells, "", "", "")
	}
	return cells
}

func formatInstant(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
