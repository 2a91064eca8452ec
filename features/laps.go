package features

import (
	"sort"

	"github.com/oaojVSM/f1-analytics/query"
)

// scThreshold flags a lap as safety car when it exceeds the race median by
// this factor and the driver did not lose positions on the following lap.
const scThreshold = 1.20

// scPositionTolerance distinguishes a driver error from a safety car: losing
// more than this many positions on the next lap means the slow lap was the
// driver's own.
const scPositionTolerance = 3

type lapRow struct {
	year     int
	round    int
	raceName string
	circuit  string
	driverID int64
	driver   string
	surname  string
	team     string
	entryID  int64
	number   int
	position int64
	hasPos   bool
	timeMs   float64
	pitIn    bool
	pitLap   bool
	dnf      bool

	safetyCar bool
	stint     int
}

type raceKey struct {
	year  int
	round int
}

// parseLapRows materializes the lap_times_report table. Rows missing an
// essential field are skipped, not fatal.
func parseLapRows(t *query.Table) ([]lapRow, error) {
	if err := t.Require(
		"year", "round_number", "race_name", "driver_id", "driver_full_name",
		"constructor_name", "session_entry_id", "lap_number", "lap_time_ms",
		"is_pit_in", "is_pit_lap", "race_status",
	); err != nil {
		return nil, err
	}

	laps := make([]lapRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		year, ok1 := r.Int("year")
		round, ok2 := r.Int("round_number")
		driverID, ok3 := r.Int("driver_id")
		entryID, ok4 := r.Int("session_entry_id")
		number, ok5 := r.Int("lap_number")
		timeMs, ok6 := r.Float("lap_time_ms")
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			continue
		}

		l := lapRow{
			year:     int(year),
			round:    int(round),
			driverID: driverID,
			entryID:  entryID,
			number:   int(number),
			timeMs:   timeMs,
			stint:    1,
		}
		l.raceName, _ = r.String("race_name")
		l.circuit, _ = r.String("circuit_name")
		l.driver, _ = r.String("driver_full_name")
		l.surname, _ = r.String("driver_surname")
		l.team, _ = r.String("constructor_name")
		if pos, ok := r.Int("position_on_lap"); ok {
			l.position = pos
			l.hasPos = true
		}
		if v, ok := r.Int("is_pit_in"); ok {
			l.pitIn = v != 0
		}
		if v, ok := r.Int("is_pit_lap"); ok {
			l.pitLap = v != 0
		}
		if v, ok := r.Int("race_status"); ok {
			l.dnf = v != 0
		}
		laps = append(laps, l)
	}

	sort.SliceStable(laps, func(i, j int) bool {
		a, b := laps[i], laps[j]
		if a.entryID != b.entryID {
			return a.entryID < b.entryID
		}
		return a.number < b.number
	})
	assignStints(laps)
	flagSafetyCarLaps(laps)
	return laps, nil
}

// assignStints numbers each entry's laps by stint. A stint opens on the lap
// after the entry's own pit-in lap; another driver's stop never advances it.
// Expects laps sorted by entry then lap number.
func assignStints(laps []lapRow) {
	for i := range laps {
		if i == 0 || laps[i].entryID != laps[i-1].entryID {
			laps[i].stint = 1
			continue
		}
		laps[i].stint = laps[i-1].stint
		if laps[i-1].pitIn {
			laps[i].stint++
		}
	}
}

// flagSafetyCarLaps marks probable safety-car laps. Baseline pace is the race
// median of representative laps (no pit laps, no lap 1); a lap well above it
// counts as SC unless the driver lost several positions on the next lap,
// which points at a driver error instead. The lap before a flagged lap is
// flagged too, since the field already slows when the safety car comes out.
func flagSafetyCarLaps(laps []lapRow) {
	baselines := make(map[raceKey]float64)
	byRace := make(map[raceKey][]float64)
	for _, l := range laps {
		if l.pitLap || l.number <= 1 {
			continue
		}
		k := raceKey{l.year, l.round}
		byRace[k] = append(byRace[k], l.timeMs)
	}
	for k, times := range byRace {
		baselines[k] = median(times)
	}

	// First pass: slow laps without a position loss on the following lap.
	sc := make([]bool, len(laps))
	for i, l := range laps {
		base, ok := baselines[raceKey{l.year, l.round}]
		if !ok || l.timeMs <= base*scThreshold {
			continue
		}
		lost := false
		if i+1 < len(laps) && laps[i+1].entryID == l.entryID && l.hasPos && laps[i+1].hasPos {
			lost = laps[i+1].position > l.position+scPositionTolerance
		}
		sc[i] = !lost
	}

	// Second pass: the lap preceding an SC lap within the same entry.
	for i := range laps {
		laps[i].safetyCar = sc[i] ||
			(i+1 < len(laps) && laps[i+1].entryID == laps[i].entryID && sc[i+1])
	}
}

// cleanLaps filters laps to those representative of true race pace: no pit
// in/out laps, no lap 1, no safety-car laps, no laps from unclassified runs.
func cleanLaps(laps []lapRow) []lapRow {
	out := make([]lapRow, 0, len(laps))
	for _, l := range laps {
		if l.pitLap || l.number <= 1 || l.safetyCar || l.dnf {
			continue
		}
		out = append(out, l)
	}
	return out
}
