package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// candidate delimiters, in tie-break preference order.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// IsValidDelimiter reports whether a rune is an accepted field delimiter.
func IsValidDelimiter(delim rune) bool {
	for _, d := range candidateDelimiters {
		if delim == d {
			return true
		}
	}
	return false
}

// DetectDelimiter guesses the field delimiter from a sample of the data by
// counting candidate occurrences over the first few lines. Files with a .tsv
// extension short-circuit to tab.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	counts := make(map[rune]int, len(candidateDelimiters))
	lines := 0
	for i := 0; i < len(sample) && lines < 5; i++ {
		c := rune(sample[i])
		if c == '\n' {
			lines++
			continue
		}
		for _, d := range candidateDelimiters {
			if c == d {
				counts[d]++
			}
		}
	}

	best := ','
	bestCount := 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}

// SniffDelimiter resolves the delimiter for a file: an explicit delimiter
// wins, a .tsv extension implies tab, and anything else is detected from the
// first 64KB of content.
func SniffDelimiter(path string, explicit rune) (rune, error) {
	if explicit != 0 {
		if !IsValidDelimiter(explicit) {
			return 0, fmt.Errorf("unsupported delimiter %q", explicit)
		}
		return explicit, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t', nil
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 64*1024)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	return DetectDelimiter(buf[:n], n), nil
}
