package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaojVSM/f1-analytics/query"
)

// makeTable builds a materialized result from a column list and value rows.
func makeTable(cols []string, rows ...[]any) *query.Table {
	t := &query.Table{Columns: cols}
	for _, vals := range rows {
		row := make(query.Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var lapCols = []string{
	"year", "round_number", "race_name", "circuit_name", "driver_id",
	"driver_full_name", "driver_surname", "constructor_name",
	"session_entry_id", "lap_number", "position_on_lap", "lap_time_ms",
	"is_pit_in", "is_pit_lap", "race_status",
}

// lap builds one lap_times_report row.
func lap(driverID, entryID, number int, timeMs float64, pos int, pitIn, pitLap, dnf int) []any {
	name := map[int]string{1: "Max Verstappen", 2: "Sergio Perez", 3: "Lando Norris"}[driverID]
	team := "Red Bull"
	if driverID == 3 {
		team = "McLaren"
	}
	return []any{
		int64(2024), int64(1), "Bahrain Grand Prix", "Sakhir",
		int64(driverID), name, "", team,
		int64(entryID), int64(number), int64(pos), timeMs,
		int64(pitIn), int64(pitLap), int64(dnf),
	}
}

func TestAssignStints(t *testing.T) {
	t.Run("no pit stops keeps stint 1 for the whole session", func(t *testing.T) {
		var rows [][]any
		for n := 1; n <= 10; n++ {
			rows = append(rows, lap(1, 1, n, 90000, 1, 0, 0, 0))
		}
		laps, err := parseLapRows(makeTable(lapCols, rows...))
		require.NoError(t, err)
		for _, l := range laps {
			assert.Equal(t, 1, l.stint)
		}
	})

	t.Run("stint opens on the lap after the entry's own pit-in", func(t *testing.T) {
		var rows [][]any
		for n := 1; n <= 25; n++ {
			pitIn, pitLap := 0, 0
			if n == 20 {
				pitIn, pitLap = 1, 1
			}
			if n == 21 {
				pitLap = 1
			}
			rows = append(rows, lap(1, 1, n, 90000, 1, pitIn, pitLap, 0))
		}
		laps, err := parseLapRows(makeTable(lapCols, rows...))
		require.NoError(t, err)
		for _, l := range laps {
			want := 1
			if l.number >= 21 {
				want = 2
			}
			assert.Equal(t, want, l.stint, "lap %d", l.number)
		}
	})

	t.Run("another driver's stop never advances the stint", func(t *testing.T) {
		var rows [][]any
		for n := 1; n <= 10; n++ {
			// Entry 1 pits on lap 5, entry 2 never does.
			pitIn := 0
			if n == 5 {
				pitIn = 1
			}
			rows = append(rows, lap(1, 1, n, 90000, 1, pitIn, pitIn, 0))
			rows = append(rows, lap(2, 2, n, 90500, 2, 0, 0, 0))
		}
		laps, err := parseLapRows(makeTable(lapCols, rows...))
		require.NoError(t, err)
		for _, l := range laps {
			if l.entryID == 2 {
				assert.Equal(t, 1, l.stint, "entry 2 lap %d", l.number)
			}
		}
	})
}

func TestCleanLaps(t *testing.T) {
	rows := [][]any{
		lap(1, 1, 1, 98000, 1, 0, 0, 0),  // first lap, dropped
		lap(1, 1, 2, 90000, 1, 0, 0, 0),  // clean
		lap(1, 1, 3, 91000, 1, 1, 1, 0),  // pit-in, dropped
		lap(1, 1, 4, 92000, 1, 0, 1, 0),  // out-lap, dropped
		lap(1, 1, 5, 90200, 1, 0, 0, 0),  // clean
		lap(2, 2, 2, 90100, 2, 0, 0, 1),  // DNF entry, dropped
	}
	laps, err := parseLapRows(makeTable(lapCols, rows...))
	require.NoError(t, err)

	clean := cleanLaps(laps)
	require.Len(t, clean, 2)
	assert.Equal(t, 2, clean[0].number)
	assert.Equal(t, 5, clean[1].number)
}

func TestFlagSafetyCarLaps(t *testing.T) {
	// Two drivers lapping around 90s; laps 10-11 are 30% over the field
	// median for both, so they read as a safety car period.
	var rows [][]any
	for n := 2; n <= 20; n++ {
		t1, t2 := 90000.0, 90400.0
		if n == 10 || n == 11 {
			t1, t2 = 118000.0, 118500.0
		}
		rows = append(rows, lap(1, 1, n, t1, 1, 0, 0, 0))
		rows = append(rows, lap(2, 2, n, t2, 2, 0, 0, 0))
	}
	laps, err := parseLapRows(makeTable(lapCols, rows...))
	require.NoError(t, err)

	for _, l := range laps {
		// Laps 10-11 are slow, lap 9 precedes the period.
		want := l.number >= 9 && l.number <= 11
		assert.Equal(t, want, l.safetyCar, "driver %d lap %d", l.driverID, l.number)
	}
}

func TestSlowLapWithPositionLossIsDriverError(t *testing.T) {
	// Driver 1 goes off on lap 10 and drops from P1 to P8 on lap 11; driver 2
	// laps normally. The slow lap stays, since the field did not slow down.
	var rows [][]any
	for n := 2; n <= 20; n++ {
		t1, pos1 := 90000.0, 1
		if n == 10 {
			t1 = 118000.0
		}
		if n >= 11 {
			pos1 = 8
		}
		rows = append(rows, lap(1, 1, n, t1, pos1, 0, 0, 0))
		rows = append(rows, lap(2, 2, n, 90400, 2, 0, 0, 0))
	}
	laps, err := parseLapRows(makeTable(lapCols, rows...))
	require.NoError(t, err)

	for _, l := range laps {
		assert.False(t, l.safetyCar, "driver %d lap %d", l.driverID, l.number)
	}
}

func TestParseLapRowsSchemaMismatch(t *testing.T) {
	table := makeTable([]string{"year", "driver_id"})
	_, err := parseLapRows(table)
	var sme *query.SchemaMismatchError
	require.ErrorAs(t, err, &sme)
}

func TestParseLapRowsSkipsMalformed(t *testing.T) {
	good := lap(1, 1, 2, 90000, 1, 0, 0, 0)
	bad := lap(1, 1, 3, 90000, 1, 0, 0, 0)
	bad[11] = nil // lap_time_ms missing

	laps, err := parseLapRows(makeTable(lapCols, good, bad))
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Equal(t, 2, laps[0].number)
}
