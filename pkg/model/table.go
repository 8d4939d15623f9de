// pkg/model/table.go
package model

// Row maps column names to values. A nil value (or a missing key) means the
// column has no value for that row.
type Row map[string]interface{}

// Table is an ordered sequence of rows sharing a fixed set of columns.
// Row order is insertion order and every operation preserves it.
type Table struct {
	Columns []string // Column names in file/query order
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(columns []string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0),
	}
}

// RowCount returns the current number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// AppendRow adds a row to the end of the table
func (t *Table) AppendRow(row Row) {
	t.Rows = append(t.Rows, row)
}

// Copy returns a deep copy of the table. Mutating the copy (or its rows)
// leaves the original untouched.
func (t *Table) Copy() *Table {
	dup := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		rowCopy := make(Row, len(row))
		for col, val := range row {
			rowCopy[col] = val
		}
		dup.Rows = append(dup.Rows, rowCopy)
	}
	return dup
}

// IsAbsent reports whether a value counts as null/missing
func IsAbsent(value interface{}) bool {
	return value == nil
}
