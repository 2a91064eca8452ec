// Package query executes parameterized SQL against the race store and
// materializes results as ordered tabular rows.
package query

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/oaojVSM/f1-analytics/queries"
)

// Executor issues SQL against the store. No caching; each call re-executes.
type Executor struct {
	db *bun.DB
}

// NewExecutor wraps an open database connection.
func NewExecutor(db *bun.DB) *Executor {
	return &Executor{db: db}
}

// Run executes sqlText with the given args and materializes the full result.
// The returned table preserves the column order declared by the query; an
// empty result is a valid zero-row table, not an error.
func (e *Executor) Run(ctx context.Context, sqlText string, args ...any) (*Table, error) {
	rows, err := e.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, &DataAccessError{Op: "query", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &DataAccessError{Op: "columns", Err: err}
	}

	t := &Table{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &DataAccessError{Op: "scan", Err: err}
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataAccessError{Op: "iterate", Err: err}
	}
	return t, nil
}

// RunQuery resolves a query from the embedded library by file name and runs it.
func (e *Executor) RunQuery(ctx context.Context, name string, args ...any) (*Table, error) {
	sqlText, err := queries.Read(name)
	if err != nil {
		return nil, &DataAccessError{Op: "load query", Err: err}
	}
	return e.Run(ctx, sqlText, args...)
}

// normalize maps driver-specific scan values onto the small set of types the
// extractors work with: int64, float64, string or nil.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	default:
		return v
	}
}
