package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"trailing newline", "a\nb\nc\n", 3},
		{"no trailing newline", "a\nb\nc", 3},
		{"single line", "header\n", 1},
		{"empty file", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, "lines.csv", tc.content)
			got, err := CountLines(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountLinesMissingFile(t *testing.T) {
	_, err := CountLines(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestReadTableAllRows(t *testing.T) {
	path := writeTempFile(t, "t.csv", "a,b\n1,2\n3,4\n")

	headers, rows, err := ReadTable(path, ',', nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2"}, rows[0])
	assert.Equal(t, []string{"3", "4"}, rows[1])
}

func TestReadTableSelectedRows(t *testing.T) {
	path := writeTempFile(t, "t.csv", "a\nr1\nr2\nr3\nr4\nr5\n")

	headers, rows, err := ReadTable(path, ',', []int{2, 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "r2", rows[0][0])
	assert.Equal(t, "r4", rows[1][0])
}

func TestReadTableRaggedRows(t *testing.T) {
	path := writeTempFile(t, "t.csv", "a,b,c\n1,2\n4,5,6\n")

	headers, rows, err := ReadTable(path, ',', nil)
	require.NoError(t, err)

	assert.Len(t, headers, 3)
	assert.Equal(t, []string{"1", "2"}, rows[0])
	assert.Equal(t, []string{"4", "5", "6"}, rows[1])
}

func TestReadTableTabDelimited(t *testing.T) {
	path := writeTempFile(t, "t.tsv", "a\tb\n1\t2\n")

	headers, rows, err := ReadTable(path, '\t', nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, headers)
	assert.Equal(t, []string{"1", "2"}, rows[0])
}

func TestReadTableNoHeader(t *testing.T) {
	path := writeTempFile(t, "t.csv", "")
	_, _, err := ReadTable(path, ',', nil)
	assert.Error(t, err)
}

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		content string
		want    rune
	}{
		{"a,b,c\n1,2,3\n", ','},
		{"a;b;c\n1;2;3\n", ';'},
		{"a\tb\tc\n1\t2\t3\n", '\t'},
		{"a|b|c\n1|2|3\n", '|'},
		{"single\nvalue\n", ','},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectDelimiter([]byte(tc.content), 0), "content %q", tc.content)
	}
}

func TestSniffDelimiter(t *testing.T) {
	path := writeTempFile(t, "data.csv", "a;b\n1;2\n")
	got, err := SniffDelimiter(path, 0)
	require.NoError(t, err)
	assert.Equal(t, ';', got)

	// Explicit delimiter wins over content.
	got, err = SniffDelimiter(path, ',')
	require.NoError(t, err)
	assert.Equal(t, ',', got)

	_, err = SniffDelimiter(path, 'x')
	assert.Error(t, err)

	tsv := writeTempFile(t, "data.tsv", "a,b\n1,2\n")
	got, err = SniffDelimiter(tsv, 0)
	require.NoError(t, err)
	assert.Equal(t, '\t', got)
}

func TestIsValidDelimiter(t *testing.T) {
	for _, d := range []rune{',', ';', '\t', '|'} {
		assert.True(t, IsValidDelimiter(d))
	}
	assert.False(t, IsValidDelimiter('x'))
}
