// Package features derives analytical feature tables from the race store.
//
// Each extractor loads reporting tables through the query library and applies
// grouping/ranking logic in memory. The compute half of every extractor is a
// pure function over materialized tables so it can be exercised without a
// database.
package features

import (
	"context"
	"fmt"

	"github.com/oaojVSM/f1-analytics/query"
)

// Source is the executor capability extractors read from.
type Source interface {
	RunQuery(ctx context.Context, name string, args ...any) (*query.Table, error)
}

// Extractor produces one feature family as a table.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, src Source) (*query.Table, error)
}

// ComputationError marks a per-row computation fault. Callers convert it to a
// NULL cell rather than aborting the extractor.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: %s", e.Reason)
}

// ratio returns a/b - 1 as a percentage-style delta, or a ComputationError
// when the denominator is zero.
func ratio(a, b float64) (float64, error) {
	if b == 0 {
		return 0, &ComputationError{Reason: "division by zero"}
	}
	return a/b - 1, nil
}

// Defaults returns the four extractors in pipeline order.
func Defaults(season int) []Extractor {
	return []Extractor{
		NewPace(season),
		NewPerformance(season),
		NewReliability(season),
		NewExperience(season),
	}
}
