package features

import (
	"context"
	"fmt"

	"github.com/oaojVSM/f1-analytics/queries"
	"github.com/oaojVSM/f1-analytics/query"
)

// Experience tracks running career totals per driver as of each round: races
// entered, wins, podiums, pole positions and seasons contested. Counters are
// monotonically non-decreasing along a driver's ordered round sequence.
type Experience struct {
	season int
}

func NewExperience(season int) *Experience { return &Experience{season: season} }

func (e *Experience) Name() string { return "experience" }

func (e *Experience) Extract(ctx context.Context, src Source) (*query.Table, error) {
	// Career totals are cumulative, so load every season regardless of the
	// configured filter and trim afterwards.
	resultsTable, err := src.RunQuery(ctx, queries.RaceResultsReport, 0)
	if err != nil {
		return nil, fmt.Errorf("experience: loading results: %w", err)
	}
	qualiTable, err := src.RunQuery(ctx, queries.QualifyReport, 0)
	if err != nil {
		return nil, fmt.Errorf("experience: loading qualifying: %w", err)
	}
	return computeExperience(resultsTable, qualiTable, e.season)
}

var experienceColumns = []string{
	"year", "round_number", "race_name", "driver_id", "driver_full_name",
	"constructor_name", "career_races", "career_wins", "career_podiums",
	"career_poles", "seasons_contested",
}

type careerStat struct {
	races   int64
	wins    int64
	podiums int64
	poles   int64
	seasons map[int]struct{}
}

func computeExperience(resultsTable, qualiTable *query.Table, season int) (*query.Table, error) {
	results, err := parseResultRows(resultsTable)
	if err != nil {
		return nil, err
	}
	quali, err := parseQualiRows(qualiTable)
	if err != nil {
		return nil, err
	}

	poles := make(map[driverRaceKey]bool)
	for _, q := range quali {
		if q.hasPos && q.pos == 1 {
			poles[driverRaceKey{q.year, q.round, q.driverID}] = true
		}
	}

	// parseResultRows sorts chronologically, so a single pass accumulates
	// each driver's career as of every round.
	careers := make(map[int64]*careerStat)
	out := &query.Table{Columns: experienceColumns}
	for _, r := range results {
		c := careers[r.driverID]
		if c == nil {
			c = &careerStat{seasons: make(map[int]struct{})}
			careers[r.driverID] = c
		}
		c.races++
		c.seasons[r.year] = struct{}{}
		if r.hasFin && r.finish == 1 {
			c.wins++
		}
		if r.hasFin && r.finish <= 3 {
			c.podiums++
		}
		if poles[driverRaceKey{r.year, r.round, r.driverID}] {
			c.poles++
		}

		if season != 0 && r.year != season {
			continue
		}
		out.Rows = append(out.Rows, query.Row{
			"year":              int64(r.year),
			"round_number":      int64(r.round),
			"race_name":         r.raceName,
			"driver_id":         r.driverID,
			"driver_full_name":  r.driver,
			"constructor_name":  r.team,
			"career_races":      c.races,
			"career_wins":       c.wins,
			"career_podiums":    c.podiums,
			"career_poles":      c.poles,
			"seasons_contested": int64(len(c.seasons)),
		})
	}
	return out, nil
}
