// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/David-Botos/table-clean/pkg/model"
)

// Separators used when encoding a row into its comparison key. Rendered
// values are quoted before encoding, so every control byte is escaped and
// the separators can never appear inside an encoded field; the null marker
// distinguishes an absent value from an empty string.
const (
	fieldSeparator = '\x1f'
	typeSeparator  = '\x1e'
	nullMarker     = '\x00'
)

// dropDuplicateRows removes every row that is an exact duplicate of an
// earlier-retained row. The first occurrence always wins and relative order
// of retained rows is preserved. Returns the number of rows removed.
func dropDuplicateRows(t *model.Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := make([]model.Row, 0, len(t.Rows))

	for _, row := range t.Rows {
		key := rowKey(row, t.Columns)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}

// dropNullRows removes every row containing at least one absent value in any
// column, preserving relative order. Returns the number of rows removed.
func dropNullRows(t *model.Table) int {
	kept := make([]model.Row, 0, len(t.Rows))

	for _, row := range t.Rows {
		if rowHasNull(row, t.Columns) {
			continue
		}
		kept = append(kept, row)
	}

	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}

// rowHasNull reports whether any column value of the row is absent
func rowHasNull(row model.Row, columns []string) bool {
	for _, col := range columns {
		if model.IsAbsent(row[col]) {
			return true
		}
	}
	return false
}

// rowKey encodes a row into a canonical string used for duplicate detection.
// Two rows produce the same key iff they hold equal values (including type)
// in every column. Absent values match only other absent values, never the
// empty string or the literal string "nil". Each field is the value's type
// name plus its quoted rendering; quoting escapes the separator bytes, so
// values containing them cannot shift field boundaries.
func rowKey(row model.Row, columns []string) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(fieldSeparator)
		}
		value, ok := row[col]
		if !ok || value == nil {
			b.WriteByte(nullMarker)
			continue
		}
		fmt.Fprintf(&b, "%T%c%s", value, typeSeparator, strconv.Quote(fmt.Sprintf("%v", value)))
	}
	return b.String()
}
