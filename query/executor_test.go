package query_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/oaojVSM/f1-analytics/config"
	bundb "github.com/oaojVSM/f1-analytics/db"
	"github.com/oaojVSM/f1-analytics/models"
	"github.com/oaojVSM/f1-analytics/queries"
	"github.com/oaojVSM/f1-analytics/query"
)

func setupStore(t *testing.T) *bun.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db := bundb.Setup(cfg)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, bundb.CreateTables(context.Background(), db))
	return db
}

func TestExecutorRun(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t)
	exec := query.NewExecutor(db)

	_, err := db.ExecContext(ctx, `CREATE TABLE kv (a INTEGER, b TEXT, c REAL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO kv VALUES (1, 'one', 1.5), (2, NULL, 2.5)`)
	require.NoError(t, err)

	t.Run("preserves declared column order", func(t *testing.T) {
		table, err := exec.Run(ctx, `SELECT c, a, b FROM kv ORDER BY a`)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, table.Columns)
		require.Len(t, table.Rows, 2)

		a, ok := table.Rows[0].Int("a")
		require.True(t, ok)
		assert.Equal(t, int64(1), a)

		c, ok := table.Rows[0].Float("c")
		require.True(t, ok)
		assert.Equal(t, 1.5, c)

		b, ok := table.Rows[0].String("b")
		require.True(t, ok)
		assert.Equal(t, "one", b)
	})

	t.Run("NULL scans as absent value", func(t *testing.T) {
		table, err := exec.Run(ctx, `SELECT b FROM kv WHERE a = ?`, 2)
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		_, ok := table.Rows[0].String("b")
		assert.False(t, ok)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		table, err := exec.Run(ctx, `SELECT a FROM kv WHERE a > 100`)
		require.NoError(t, err)
		assert.True(t, table.Empty())
		assert.Equal(t, []string{"a"}, table.Columns)
	})

	t.Run("malformed SQL is a DataAccessError", func(t *testing.T) {
		_, err := exec.Run(ctx, `SELECT FROM WHERE`)
		var dae *query.DataAccessError
		require.ErrorAs(t, err, &dae)
	})

	t.Run("unknown library query is a DataAccessError", func(t *testing.T) {
		_, err := exec.RunQuery(ctx, "no_such_report.sql")
		var dae *query.DataAccessError
		require.ErrorAs(t, err, &dae)
	})
}

func TestTableRequire(t *testing.T) {
	table := &query.Table{Columns: []string{"year", "driver_id"}}

	assert.NoError(t, table.Require("year", "driver_id"))

	err := table.Require("year", "lap_time_ms")
	var sme *query.SchemaMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, "lap_time_ms", sme.Column)
}

// seedRace inserts one round with a race and qualifying session and two
// drivers on the same team.
func seedRace(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()

	insert := func(m any) {
		_, err := db.NewInsert().Model(m).Exec(ctx)
		require.NoError(t, err)
	}

	insert(&models.Season{Year: 2024})
	insert(&models.Circuit{CircuitID: 1, Ref: "sakhir", Name: "Bahrain International Circuit", Locality: "Sakhir", Country: "Bahrain"})
	insert(&models.Round{RoundID: 1, Year: 2024, Number: 1, Name: "Bahrain Grand Prix", Date: "2024-03-02", CircuitID: 1})
	insert(&models.Team{TeamID: 1, Ref: "red_bull", Name: "Red Bull", Nationality: "Austrian"})
	insert(&models.Driver{DriverID: 1, Ref: "max_verstappen", Forename: "Max", Surname: "Verstappen", Nationality: "Dutch"})
	insert(&models.Driver{DriverID: 2, Ref: "perez", Forename: "Sergio", Surname: "Perez", Nationality: "Mexican"})
	insert(&models.TeamDriver{TeamDriverID: 1, TeamID: 1, DriverID: 1})
	insert(&models.TeamDriver{TeamDriverID: 2, TeamID: 1, DriverID: 2})
	insert(&models.RoundEntry{RoundEntryID: 1, RoundID: 1, TeamDriverID: 1})
	insert(&models.RoundEntry{RoundEntryID: 2, RoundID: 1, TeamDriverID: 2})
	insert(&models.Session{SessionID: 1, RoundID: 1, Type: models.SessionRace})
	insert(&models.Session{SessionID: 2, RoundID: 1, Type: models.SessionQualifying})

	grid1, grid2 := 1, 3
	pos1, pos2 := 1, 2
	best := 91000.0
	insert(&models.SessionEntry{SessionEntryID: 1, SessionID: 1, RoundEntryID: 1, Grid: &grid1, Position: &pos1, Points: 25, LapsCompleted: 57, Status: "Finished"})
	insert(&models.SessionEntry{SessionEntryID: 2, SessionID: 1, RoundEntryID: 2, Grid: &grid2, Position: &pos2, Points: 18, LapsCompleted: 57, Status: "Finished"})
	insert(&models.SessionEntry{SessionEntryID: 3, SessionID: 2, RoundEntryID: 1, Position: &pos1, Status: "Finished", BestLapTimeMs: &best})

	for lap := 1; lap <= 25; lap++ {
		insert(&models.Lap{LapID: lap, SessionEntryID: 1, Number: lap, TimeMs: 95000})
	}
	insert(&models.PitStop{PitStopID: 1, SessionEntryID: 1, StopNumber: 1, LapNumber: 20})
}

func TestLapTimesReport(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t)
	seedRace(t, db)
	exec := query.NewExecutor(db)

	table, err := exec.RunQuery(ctx, queries.LapTimesReport, 0)
	require.NoError(t, err)
	require.NoError(t, table.Require(
		"year", "round_number", "race_name", "circuit_name", "driver_id",
		"driver_full_name", "constructor_name", "session_entry_id",
		"lap_number", "lap_time_ms", "is_pit_in", "is_pit_lap", "race_status"))
	require.Len(t, table.Rows, 25)

	t.Run("pit-lap flag covers stop lap and out-lap only", func(t *testing.T) {
		for _, row := range table.Rows {
			lap, ok := row.Int("lap_number")
			require.True(t, ok)
			flag, ok := row.Int("is_pit_lap")
			require.True(t, ok)
			if lap == 20 || lap == 21 {
				assert.Equal(t, int64(1), flag, "lap %d", lap)
			} else {
				assert.Equal(t, int64(0), flag, "lap %d", lap)
			}
			in, ok := row.Int("is_pit_in")
			require.True(t, ok)
			assert.Equal(t, lap == 20, in == 1, "lap %d", lap)
		}
	})

	t.Run("classified finisher has race_status 0", func(t *testing.T) {
		status, ok := table.Rows[0].Int("race_status")
		require.True(t, ok)
		assert.Equal(t, int64(0), status)
	})

	t.Run("season filter", func(t *testing.T) {
		filtered, err := exec.RunQuery(ctx, queries.LapTimesReport, 1999)
		require.NoError(t, err)
		assert.True(t, filtered.Empty())
	})
}

func TestRaceAndQualifyReports(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t)
	seedRace(t, db)
	exec := query.NewExecutor(db)

	results, err := exec.RunQuery(ctx, queries.RaceResultsReport, 2024)
	require.NoError(t, err)
	require.Len(t, results.Rows, 2)

	winner := results.Rows[0]
	name, _ := winner.String("driver_full_name")
	assert.Equal(t, "Max Verstappen", name)
	pts, _ := winner.Float("points_scored")
	assert.Equal(t, 25.0, pts)

	quali, err := exec.RunQuery(ctx, queries.QualifyReport, 2024)
	require.NoError(t, err)
	require.Len(t, quali.Rows, 1)
	best, ok := quali.Rows[0].Float("best_lap_time_ms")
	require.True(t, ok)
	assert.Equal(t, 91000.0, best)
}
