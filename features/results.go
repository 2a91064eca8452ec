package features

import (
	"sort"
	"strings"

	"github.com/oaojVSM/f1-analytics/query"
)

type resultRow struct {
	year     int
	round    int
	raceName string
	circuit  string
	driverID int64
	driver   string
	surname  string
	team     string
	grid     int64
	hasGrid  bool
	finish   int64
	hasFin   bool
	points   float64
	status   string
	laps     int64
}

type qualiRow struct {
	year     int
	round    int
	raceName string
	driverID int64
	driver   string
	surname  string
	team     string
	pos      int64
	hasPos   bool
	bestMs   float64
	hasBest  bool
}

// parseResultRows materializes the race_results_report table, sorted
// chronologically. Rows missing an essential field are skipped.
func parseResultRows(t *query.Table) ([]resultRow, error) {
	if err := t.Require(
		"year", "round_number", "race_name", "driver_id", "driver_full_name",
		"constructor_name", "starting_position", "finishing_position",
		"points_scored", "race_status",
	); err != nil {
		return nil, err
	}

	rows := make([]resultRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		year, ok1 := r.Int("year")
		round, ok2 := r.Int("round_number")
		driverID, ok3 := r.Int("driver_id")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		row := resultRow{
			year:     int(year),
			round:    int(round),
			driverID: driverID,
		}
		row.raceName, _ = r.String("race_name")
		row.circuit, _ = r.String("circuit_name")
		row.driver, _ = r.String("driver_full_name")
		row.surname, _ = r.String("driver_surname")
		row.team, _ = r.String("constructor_name")
		row.status, _ = r.String("race_status")
		row.points, _ = r.Float("points_scored")
		row.laps, _ = r.Int("laps_completed")
		// Grid 0 means a pit-lane start in the source dumps; there is no
		// meaningful starting position to diff against.
		if g, ok := r.Int("starting_position"); ok && g > 0 {
			row.grid = g
			row.hasGrid = true
		}
		if f, ok := r.Int("finishing_position"); ok {
			row.finish = f
			row.hasFin = true
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.round != b.round {
			return a.round < b.round
		}
		return a.driverID < b.driverID
	})
	return rows, nil
}

// parseQualiRows materializes the qualify_report table.
func parseQualiRows(t *query.Table) ([]qualiRow, error) {
	if err := t.Require(
		"year", "round_number", "race_name", "driver_id", "driver_full_name",
		"constructor_name", "qualifying_position", "best_lap_time_ms",
	); err != nil {
		return nil, err
	}

	rows := make([]qualiRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		year, ok1 := r.Int("year")
		round, ok2 := r.Int("round_number")
		driverID, ok3 := r.Int("driver_id")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		row := qualiRow{
			year:     int(year),
			round:    int(round),
			driverID: driverID,
		}
		row.raceName, _ = r.String("race_name")
		row.driver, _ = r.String("driver_full_name")
		row.surname, _ = r.String("driver_surname")
		row.team, _ = r.String("constructor_name")
		if p, ok := r.Int("qualifying_position"); ok {
			row.pos = p
			row.hasPos = true
		}
		if b, ok := r.Float("best_lap_time_ms"); ok && b > 0 {
			row.bestMs = b
			row.hasBest = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// classified reports whether a status text counts as a classified finish:
// "Finished" or a lapped "+N Lap(s)" result.
func classified(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == "finished" || strings.HasPrefix(s, "+")
}

// isDNF is the complement of classified for non-empty statuses.
func isDNF(status string) bool {
	return strings.TrimSpace(status) != "" && !classified(status)
}

// mechanicalKeywords match status texts attributable to the car rather than
// the driver or a racing incident.
var mechanicalKeywords = []string{
	"engine", "gearbox", "transmission", "clutch", "hydraulic", "electrical",
	"electronics", "brake", "suspension", "overheating", "mechanical",
	"power unit", "ers", "turbo", "exhaust", "oil", "pump", "battery",
	"fuel", "wheel", "tyre", "puncture", "throttle", "radiator", "driveshaft",
	"halfshaft", "differential", "steering", "vibrations", "water leak",
}

// isMechanicalDNF reports whether a DNF status points at a car failure.
func isMechanicalDNF(status string) bool {
	if !isDNF(status) {
		return false
	}
	s := strings.ToLower(status)
	for _, k := range mechanicalKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
