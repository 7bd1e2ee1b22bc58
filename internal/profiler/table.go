package profiler

import "time"

// ColumnType is the inferred type of a column. It is set exactly once by the
// detector and is uniform across all cells of the column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeNumber
	TypeTemporal
)

func (t ColumnType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeTemporal:
		return "date"
	default:
		return "text"
	}
}

// Column holds one column of the sampled table. Raw always keeps the original
// text cells; Numbers or Times are populated only when the detector commits to
// the matching type. Missing marks cells that carried no value in the source
// or failed coercion under the committed type. Empty marks cells that were
// zero-length text in the source, measured before typing.
type Column struct {
	Name string
	Type ColumnType

	Raw     []string
	Missing []bool
	Empty   []bool

	Numbers []float64
	Times   []time.Time
}

// NewColumn builds a text column from raw cells. A nil-marked cell (absent in
// its source row) is recorded as missing; a zero-length cell as empty.
func NewColumn(name string, cells []string, present []bool) *Column {
	n := len(cells)
	col := &Column{
		Name:    name,
		Type:    TypeText,
		Raw:     cells,
		Missing: make([]bool, n),
		Empty:   make([]bool, n),
	}
	for i := range cells {
		if present != nil && !present[i] {
			col.Missing[i] = true
			continue
		}
		if cells[i] == "" {
			col.Empty[i] = true
		}
	}
	return col
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.Raw) }

// hasValue reports whether row i carries a usable value.
func (c *Column) hasValue(i int) bool {
	return !c.Missing[i] && !c.Empty[i]
}

// valueIndices returns the row indices of all usable cells.
func (c *Column) valueIndices() []int {
	idx := make([]int, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.hasValue(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Table is the in-memory form of one sampled file: named columns of equal
// length. It is built once from the bounded read, retyped in place by the
// detector, and read exactly once by the summarizer.
type Table struct {
	Columns []*Column
}

// NewTable converts row-oriented reader output into columns. Rows shorter
// than the header leave their trailing cells missing.
func NewTable(headers []string, rows [][]string) *Table {
	cols := make([]*Column, len(headers))
	for j, name := range headers {
		cells := make([]string, len(rows))
		present := make([]bool, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
				present[i] = true
			}
		}
		cols[j] = NewColumn(name, cells, present)
	}
	return &Table{Columns: cols}
}

// RowCount returns the number of data rows held by the table.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}
