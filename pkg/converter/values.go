// pkg/converter/values.go
package converter

import (
	"fmt"
	"strconv"
	"time"
)

// IsNullToken reports whether a raw CSV field denotes an absent value.
// An empty cell and the common textual null spellings all count.
func IsNullToken(field string) bool {
	switch field {
	case "", "null", "NULL", "nil", "NIL", "NaN":
		return true
	}
	return false
}

// NormalizeValue converts a driver-supplied value into the canonical
// in-memory representation used by tables. Byte slices become strings so
// that equal values scanned from different drivers compare equal; string
// null tokens become absent values, matching the CSV reader.
func NormalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		s := string(v)
		if IsNullToken(s) {
			return nil
		}
		return s
	case string:
		if IsNullToken(v) {
			return nil
		}
		return v
	default:
		return value
	}
}

// FormatValue renders a table value for CSV output. Absent values render as
// the empty cell.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
