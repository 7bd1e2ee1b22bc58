package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FritscheLab/whiteRRabbit/internal/profiler"
)

// WriteTSV renders the same three tables as the workbook into overview.tsv,
// fields.tsv and values.tsv under dir, for environments without a
// spreadsheet reader.
func WriteTSV(dir string, reports []*profiler.FileReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	overview := [][]string{toStrings(overviewHeader)}
	fields := [][]string{toStrings(fieldsHeader)}
	values := [][]string{toStrings(valuesHeader)}

	for _, rep := range reports {
		overview = append(overview, toStrings(overviewCells(rep)))
		for _, col := range rep.Columns {
			fields = append(fields, toStrings(fieldCells(rep.FileName, col)))
		}
		for _, entry := range rep.Frequencies {
			values = append(values, []string{
				rep.FileName, entry.Column, entry.Value,
				fmt.Sprintf("%d", entry.Count),
				fmt.Sprintf("%.4f", entry.Fraction),
			})
		}
	}

	tables := map[string][][]string{
		"overview.tsv": overview,
		"fields.tsv":   fields,
		"values.tsv":   values,
	}
	for name, rows := range tables {
		if err := writeTSVFile(filepath.Join(dir, name), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeTSVFile(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = '\t'
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = fmt.Sprintf("%d", v)
		case float64:
			out[i] = formatFloat(v)
		default:
			out[i] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
