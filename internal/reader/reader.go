package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// countBufferSize is the chunk size for the newline scan. Large chunks keep
// the count I/O-bound rather than syscall-bound on multi-gigabyte files.
const countBufferSize = 4 * 1024 * 1024

// CountLines counts physical lines in a file by scanning for newlines in
// large chunks. A non-empty final line without a trailing newline is counted.
func CountLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, countBufferSize)
	lines := 0
	lastByte := byte('\n')
	for {
		n, err := file.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			lastByte = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read file: %w", err)
		}
	}
	if lastByte != '\n' {
		lines++
	}
	return lines, nil
}

// ReadTable reads the header plus the selected data rows, returning all
// cells as text. A nil rowIndices reads every data row; otherwise rowIndices
// holds sorted, 1-based data-row numbers and only those physical lines are
// kept. Rows are allowed to be ragged; rows shorter than the header leave
// trailing cells absent, which the table model records as missing rather
// than empty.
func ReadTable(path string, delimiter rune, rowIndices []int) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(bufio.NewReaderSize(file, countBufferSize))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	if rowIndices == nil {
		rows, err = readAll(r)
	} else {
		rows, err = readSelected(r, rowIndices)
	}
	if err != nil {
		return nil, nil, err
	}
	return headers, rows, nil
}

func readAll(r *csv.Reader) ([][]string, error) {
	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}
}

// readSelected walks the file once, keeping only the planned 1-based data
// rows. Indices must be sorted ascending; the full file is never
// materialized.
func readSelected(r *csv.Reader, indices []int) ([][]string, error) {
	rows := make([][]string, 0, len(indices))
	next := 0
	rowNum := 0
	for next < len(indices) {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rowNum++
		if rowNum == indices[next] {
			row := make([]string, len(record))
			copy(row, record)
			rows = append(rows, row)
			next++
		}
	}
	return rows, nil
}
