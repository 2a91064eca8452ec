package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/oaojVSM/f1-analytics/config"
	"github.com/oaojVSM/f1-analytics/models"
)

// Setup opens the SQLite store using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.SQLiteDSN())
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	// SQLite serializes writers; a single connection avoids table-lock errors
	// during bulk ingest.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Season)(nil),
		(*models.Circuit)(nil),
		(*models.Round)(nil),
		(*models.Team)(nil),
		(*models.Driver)(nil),
		(*models.TeamDriver)(nil),
		(*models.RoundEntry)(nil),
		(*models.Session)(nil),
		(*models.SessionEntry)(nil),
		(*models.Lap)(nil),
		(*models.PitStop)(nil),
		(*models.DriverStanding)(nil),
		(*models.TeamStanding)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS rounds_no_dupes ON rounds (year, number)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS team_drivers_no_dupes ON team_drivers (team_id, driver_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS sessions_no_dupes ON sessions (round_id, type)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS laps_no_dupes ON laps (session_entry_id, number)`,
		`CREATE INDEX IF NOT EXISTS session_entries_session ON session_entries (session_id)`,
		`CREATE INDEX IF NOT EXISTS pit_stops_entry ON pit_stops (session_entry_id)`,
		`CREATE INDEX IF NOT EXISTS laps_entry ON laps (session_entry_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
