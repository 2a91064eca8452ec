package query

import "fmt"

// DataAccessError reports an unreachable store or malformed query.
// An empty result set is not an error.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// SchemaMismatchError reports a column the caller expected but the query did
// not return. It usually means the query library lags a schema revision.
type SchemaMismatchError struct {
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: expected column %q absent from result", e.Column)
}
