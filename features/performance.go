package features

import (
	"context"
	"fmt"

	"github.com/oaojVSM/f1-analytics/queries"
	"github.com/oaojVSM/f1-analytics/query"
)

// Performance reports per-result race outcomes: points scored, positions
// gained from the grid, and the qualifying duel against the teammate.
type Performance struct {
	season int
}

func NewPerformance(season int) *Performance { return &Performance{season: season} }

func (p *Performance) Name() string { return "performance" }

func (p *Performance) Extract(ctx context.Context, src Source) (*query.Table, error) {
	resultsTable, err := src.RunQuery(ctx, queries.RaceResultsReport, p.season)
	if err != nil {
		return nil, fmt.Errorf("performance: loading results: %w", err)
	}
	qualiTable, err := src.RunQuery(ctx, queries.QualifyReport, p.season)
	if err != nil {
		return nil, fmt.Errorf("performance: loading qualifying: %w", err)
	}
	return computePerformance(resultsTable, qualiTable)
}

var performanceColumns = []string{
	"year", "round_number", "race_name", "driver_id", "driver_full_name",
	"constructor_name", "starting_position", "finishing_position",
	"points_scored", "positions_gained", "beat_teammate_quali", "race_status",
}

func computePerformance(resultsTable, qualiTable *query.Table) (*query.Table, error) {
	results, err := parseResultRows(resultsTable)
	if err != nil {
		return nil, err
	}
	quali, err := parseQualiRows(qualiTable)
	if err != nil {
		return nil, err
	}

	// Qualifying positions per driver and per team, for the duel outcome.
	qualiPos := make(map[driverRaceKey]int64)
	teamPos := make(map[raceKey]map[string][]driverBest)
	for _, q := range quali {
		if !q.hasPos {
			continue
		}
		qualiPos[driverRaceKey{q.year, q.round, q.driverID}] = q.pos
		rk := raceKey{q.year, q.round}
		if teamPos[rk] == nil {
			teamPos[rk] = make(map[string][]driverBest)
		}
		teamPos[rk][q.team] = append(teamPos[rk][q.team], driverBest{q.driverID, float64(q.pos)})
	}

	out := &query.Table{Columns: performanceColumns}
	for _, r := range results {
		row := query.Row{
			"year":                int64(r.year),
			"round_number":        int64(r.round),
			"race_name":           r.raceName,
			"driver_id":           r.driverID,
			"driver_full_name":    r.driver,
			"constructor_name":    r.team,
			"starting_position":   nil,
			"finishing_position":  nil,
			"points_scored":       r.points,
			"positions_gained":    nil,
			"beat_teammate_quali": nil,
			"race_status":         r.status,
		}
		if r.hasGrid {
			row["starting_position"] = r.grid
		}
		if r.hasFin {
			row["finishing_position"] = r.finish
		}
		// Positions gained is only meaningful for classified finishers; a
		// retirement keeps the NULL sentinel.
		if r.hasGrid && r.hasFin && classified(r.status) {
			row["positions_gained"] = r.grid - r.finish
		}
		k := driverRaceKey{r.year, r.round, r.driverID}
		if pos, ok := qualiPos[k]; ok {
			if teammate, found := bestTeammate(teamPos[raceKey{r.year, r.round}][r.team], r.driverID); found {
				beat := int64(0)
				if float64(pos) < teammate {
					beat = 1
				}
				row["beat_teammate_quali"] = beat
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
