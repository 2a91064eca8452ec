package query

import "strconv"

// Row maps column names to scanned values (int64, float64, string or nil).
type Row map[string]any

// Table is a materialized query result. Columns preserves the order declared
// by the query text.
type Table struct {
	Columns []string
	Rows    []Row
}

// Require verifies the listed columns are present, returning a
// SchemaMismatchError naming the first absent one.
func (t *Table) Require(cols ...string) error {
	have := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			return &SchemaMismatchError{Column: c}
		}
	}
	return nil
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Int returns the column as an int64. ok is false for NULL, absent or
// non-numeric values.
func (r Row) Int(col string) (int64, bool) {
	switch x := r[col].(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float returns the column as a float64. ok is false for NULL, absent or
// non-numeric values.
func (r Row) Float(col string) (float64, bool) {
	switch x := r[col].(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String returns the column as a string. ok is false for NULL or absent values.
func (r Row) String(col string) (string, bool) {
	switch x := r[col].(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
