package features

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/oaojVSM/f1-analytics/queries"
	"github.com/oaojVSM/f1-analytics/query"
)

// Pace measures race and qualifying speed per driver/round: lap-time
// consistency over clean laps, gap to the best teammate lap, and qualifying
// deltas to the session fastest and to the teammate.
type Pace struct {
	season int
}

func NewPace(season int) *Pace { return &Pace{season: season} }

func (p *Pace) Name() string { return "pace" }

func (p *Pace) Extract(ctx context.Context, src Source) (*query.Table, error) {
	lapsTable, err := src.RunQuery(ctx, queries.LapTimesReport, p.season)
	if err != nil {
		return nil, fmt.Errorf("pace: loading laps: %w", err)
	}
	qualiTable, err := src.RunQuery(ctx, queries.QualifyReport, p.season)
	if err != nil {
		return nil, fmt.Errorf("pace: loading qualifying: %w", err)
	}
	return computePace(lapsTable, qualiTable)
}

type driverRaceKey struct {
	year     int
	round    int
	driverID int64
}

type paceRaceStat struct {
	raceName string
	driver   string
	team     string
	count    int
	stdDev   float64 // NaN when fewer than two clean laps
	median   float64
	best     float64
}

var paceColumns = []string{
	"year", "round_number", "race_name", "driver_id", "driver_full_name",
	"constructor_name", "clean_laps", "lap_time_std_dev_ms", "median_pace_ms",
	"pace_vs_race_pct", "gap_to_teammate_best_ms", "gap_to_teammate_best_pct",
	"quali_delta_to_fastest_pct", "quali_delta_to_teammate_pct",
}

func computePace(lapsTable, qualiTable *query.Table) (*query.Table, error) {
	laps, err := parseLapRows(lapsTable)
	if err != nil {
		return nil, err
	}
	quali, err := parseQualiRows(qualiTable)
	if err != nil {
		return nil, err
	}

	clean := cleanLaps(laps)

	// Per-driver clean-lap stats and the race-wide median.
	times := make(map[driverRaceKey][]float64)
	raceTimes := make(map[raceKey][]float64)
	meta := make(map[driverRaceKey]lapRow)
	for _, l := range clean {
		k := driverRaceKey{l.year, l.round, l.driverID}
		times[k] = append(times[k], l.timeMs)
		raceTimes[raceKey{l.year, l.round}] = append(raceTimes[raceKey{l.year, l.round}], l.timeMs)
		meta[k] = l
	}

	stats := make(map[driverRaceKey]paceRaceStat, len(times))
	teamBests := make(map[raceKey]map[string][]driverBest)
	for k, ts := range times {
		m := meta[k]
		st := paceRaceStat{
			raceName: m.raceName,
			driver:   m.driver,
			team:     m.team,
			count:    len(ts),
			stdDev:   sampleStdDev(ts),
			median:   median(ts),
			best:     minOf(ts),
		}
		stats[k] = st

		rk := raceKey{k.year, k.round}
		if teamBests[rk] == nil {
			teamBests[rk] = make(map[string][]driverBest)
		}
		teamBests[rk][m.team] = append(teamBests[rk][m.team], driverBest{k.driverID, st.best})
	}

	// Qualifying stats: session fastest and per-team bests.
	qualiByKey := make(map[driverRaceKey]qualiRow)
	qualiFastest := make(map[raceKey]float64)
	qualiTeamBests := make(map[raceKey]map[string][]driverBest)
	for _, q := range quali {
		k := driverRaceKey{q.year, q.round, q.driverID}
		qualiByKey[k] = q
		if !q.hasBest {
			continue
		}
		rk := raceKey{q.year, q.round}
		if cur, ok := qualiFastest[rk]; !ok || q.bestMs < cur {
			qualiFastest[rk] = q.bestMs
		}
		if qualiTeamBests[rk] == nil {
			qualiTeamBests[rk] = make(map[string][]driverBest)
		}
		qualiTeamBests[rk][q.team] = append(qualiTeamBests[rk][q.team], driverBest{q.driverID, q.bestMs})
	}

	// Union of race-lap and qualifying keys.
	keys := make(map[driverRaceKey]struct{}, len(stats))
	for k := range stats {
		keys[k] = struct{}{}
	}
	for k := range qualiByKey {
		keys[k] = struct{}{}
	}
	ordered := make([]driverRaceKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.round != b.round {
			return a.round < b.round
		}
		return a.driverID < b.driverID
	})

	out := &query.Table{Columns: paceColumns}
	for _, k := range ordered {
		rk := raceKey{k.year, k.round}
		row := query.Row{
			"year":         int64(k.year),
			"round_number": int64(k.round),
			"driver_id":    k.driverID,
		}
		for _, c := range paceColumns[2:] {
			if _, ok := row[c]; !ok {
				row[c] = nil
			}
		}

		st, hasLaps := stats[k]
		q, hasQuali := qualiByKey[k]
		switch {
		case hasLaps:
			row["race_name"], row["driver_full_name"], row["constructor_name"] = st.raceName, st.driver, st.team
		case hasQuali:
			row["race_name"], row["driver_full_name"], row["constructor_name"] = q.raceName, q.driver, q.team
		}

		if hasLaps {
			row["clean_laps"] = int64(st.count)
			row["median_pace_ms"] = st.median
			if !math.IsNaN(st.stdDev) {
				row["lap_time_std_dev_ms"] = st.stdDev
			}
			if pct, err := ratio(st.median, median(raceTimes[rk])); err == nil {
				row["pace_vs_race_pct"] = pct
			}
			if best, ok := bestTeammate(teamBests[rk][st.team], k.driverID); ok {
				row["gap_to_teammate_best_ms"] = st.best - best
				if pct, err := ratio(st.best, best); err == nil {
					row["gap_to_teammate_best_pct"] = pct
				}
			}
		} else {
			row["clean_laps"] = int64(0)
		}

		// A driver with no qualifying laps keeps NULL deltas here; that is a
		// valid outcome, not an error.
		if hasQuali && q.hasBest {
			if pct, err := ratio(q.bestMs, qualiFastest[rk]); err == nil {
				row["quali_delta_to_fastest_pct"] = pct
			}
			if best, ok := bestTeammate(qualiTeamBests[rk][q.team], k.driverID); ok {
				if pct, err := ratio(q.bestMs, best); err == nil {
					row["quali_delta_to_teammate_pct"] = pct
				}
			}
		}

		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

type driverBest struct {
	driverID int64
	best     float64
}

// bestTeammate returns the fastest best lap among the other drivers of the
// same team, collapsing multiple teammates onto the quickest one.
func bestTeammate(bests []driverBest, self int64) (float64, bool) {
	found := false
	var best float64
	for _, b := range bests {
		if b.driverID == self {
			continue
		}
		if !found || b.best < best {
			best = b.best
			found = true
		}
	}
	return best, found
}
