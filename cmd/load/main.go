// cmd/load/main.go
// Loads raw Ergast-style CSV dumps into the normalized SQLite store.
//
// Usage:
//
//	F1_RAW_DIR="data/raw" \
//	F1_DB_PATH="data/processed/f1.db" \
//	go run ./cmd/load
//
// Re-runs are idempotent: inserts use ON CONFLICT DO NOTHING and generated
// ids are derived deterministically from the source ids. Malformed rows are
// skipped and counted, never fatal; a missing optional dump skips its step.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/oaojVSM/f1-analytics/config"
	bundb "github.com/oaojVSM/f1-analytics/db"
	"github.com/oaojVSM/f1-analytics/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()
	if cfg.RawDir == "" {
		log.Fatal("F1_RAW_DIR required, e.g.: data/raw")
	}

	db := bundb.Setup(cfg)
	defer db.Close()
	log.Printf("connected to %s", cfg.DBPath)

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	ld := &loader{
		ctx:           ctx,
		db:            db,
		dir:           cfg.RawDir,
		statuses:      map[int]string{},
		teamDrivers:   map[[2]int]int{},
		roundEntries:  map[[2]int]int{},
		raceSessions:  map[int]int{},
		qualiSessions: map[int]int{},
		raceEntries:   map[[2]int]int{},
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"circuits", ld.loadCircuits},
		{"races", ld.loadRaces},
		{"constructors", ld.loadTeams},
		{"drivers", ld.loadDrivers},
		{"status", ld.loadStatuses},
		{"results", ld.loadResults},
		{"qualifying", ld.loadQualifying},
		{"lap_times", ld.loadLapTimes},
		{"pit_stops", ld.loadPitStops},
		{"driver_standings", ld.loadDriverStandings},
		{"constructor_standings", ld.loadTeamStandings},
	}

	for _, s := range steps {
		n, err := s.fn()
		if os.IsNotExist(err) {
			log.Printf("%-22s  skipped (no %s.csv)", s.name, s.name)
			continue
		}
		if err != nil {
			log.Fatalf("load %s: %v", s.name, err)
		}
		log.Printf("%-22s  %d rows loaded", s.name, n)
	}

	if ld.skipped > 0 {
		log.Printf("skipped %d malformed rows", ld.skipped)
	}
	log.Println("load complete")
}

type loader struct {
	ctx context.Context
	db  *bun.DB
	dir string

	statuses      map[int]string // statusId -> text
	teamDrivers   map[[2]int]int // teamID,driverID -> team_driver_id
	roundEntries  map[[2]int]int // raceID,driverID -> round_entry_id
	raceSessions  map[int]int    // raceID -> race session_id
	qualiSessions map[int]int    // raceID -> qualifying session_id
	raceEntries   map[[2]int]int // raceID,driverID -> race session_entry_id

	nextTeamDriverID   int
	nextRoundEntryID   int
	nextSessionID      int
	nextSessionEntryID int
	nextLapID          int
	nextPitStopID      int
	skipped            int
}

// --- CSV helpers ---

type csvFile struct {
	header map[string]int
	rows   [][]string
}

func (l *loader) read(name string) (*csvFile, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return &csvFile{header: map[string]int{}}, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[strings.TrimSpace(col)] = i
	}
	return &csvFile{header: header, rows: records[1:]}, nil
}

func (c *csvFile) field(row []string, col string) string {
	i, ok := c.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if v == `\N` {
		return ""
	}
	return v
}

func (c *csvFile) intField(row []string, col string) (int, bool) {
	n, err := strconv.Atoi(c.field(row, col))
	return n, err == nil
}

func (c *csvFile) floatField(row []string, col string) (float64, bool) {
	f, err := strconv.ParseFloat(c.field(row, col), 64)
	return f, err == nil
}

func (c *csvFile) intPtr(row []string, col string) *int {
	if n, ok := c.intField(row, col); ok {
		return &n
	}
	return nil
}

func (c *csvFile) floatPtr(row []string, col string) *float64 {
	if f, ok := c.floatField(row, col); ok {
		return &f
	}
	return nil
}

// lapTimeToMs converts "M:SS.mmm" (or "H:MM:SS.mmm") clock strings to
// milliseconds.
func lapTimeToMs(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	return total * 1000, true
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, db *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// flushBatch drains the batch when it reaches batchSize.
func flushBatch[T any](ctx context.Context, db *bun.DB, batch []T, total *int) ([]T, error) {
	if len(batch) < batchSize {
		return batch, nil
	}
	if err := bulkInsert(ctx, db, batch); err != nil {
		return batch, err
	}
	*total += len(batch)
	return batch[:0], nil
}

// --- per-table loaders ---

func (l *loader) loadCircuits() (int, error) {
	c, err := l.read("circuits.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.Circuit
	total := 0
	for _, row := range c.rows {
		id, ok := c.intField(row, "circuitId")
		if !ok {
			l.skipped++
			continue
		}
		batch = append(batch, models.Circuit{
			CircuitID: id,
			Ref:       c.field(row, "circuitRef"),
			Name:      c.field(row, "name"),
			Locality:  c.field(row, "location"),
			Country:   c.field(row, "country"),
		})
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// loadRaces creates seasons, rounds and one race session per round.
func (l *loader) loadRaces() (int, error) {
	c, err := l.read("races.csv")
	if err != nil {
		return 0, err
	}

	years := map[int]struct{}{}
	var rounds []models.Round
	var sessions []models.Session
	for _, row := range c.rows {
		raceID, ok1 := c.intField(row, "raceId")
		year, ok2 := c.intField(row, "year")
		number, ok3 := c.intField(row, "round")
		circuitID, ok4 := c.intField(row, "circuitId")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			l.skipped++
			continue
		}
		years[year] = struct{}{}
		date := c.field(row, "date")
		rounds = append(rounds, models.Round{
			RoundID:   raceID,
			Year:      year,
			Number:    number,
			Name:      c.field(row, "name"),
			Date:      date,
			CircuitID: circuitID,
		})

		l.nextSessionID++
		l.raceSessions[raceID] = l.nextSessionID
		d := date
		sessions = append(sessions, models.Session{
			SessionID: l.nextSessionID,
			RoundID:   raceID,
			Type:      models.SessionRace,
			Date:      &d,
		})
	}

	var seasons []models.Season
	for y := range years {
		seasons = append(seasons, models.Season{Year: y})
	}
	if err := bulkInsert(l.ctx, l.db, seasons); err != nil {
		return 0, err
	}
	for start := 0; start < len(rounds); start += batchSize {
		end := min(start+batchSize, len(rounds))
		if err := bulkInsert(l.ctx, l.db, rounds[start:end]); err != nil {
			return start, err
		}
	}
	for start := 0; start < len(sessions); start += batchSize {
		end := min(start+batchSize, len(sessions))
		if err := bulkInsert(l.ctx, l.db, sessions[start:end]); err != nil {
			return len(rounds), err
		}
	}
	return len(rounds), nil
}

func (l *loader) loadTeams() (int, error) {
	c, err := l.read("constructors.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.Team
	total := 0
	for _, row := range c.rows {
		id, ok := c.intField(row, "constructorId")
		if !ok {
			l.skipped++
			continue
		}
		batch = append(batch, models.Team{
			TeamID:      id,
			Ref:         c.field(row, "constructorRef"),
			Name:        c.field(row, "name"),
			Nationality: c.field(row, "nationality"),
		})
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadDrivers() (int, error) {
	c, err := l.read("drivers.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.Driver
	total := 0
	for _, row := range c.rows {
		id, ok := c.intField(row, "driverId")
		if !ok {
			l.skipped++
			continue
		}
		d := models.Driver{
			DriverID:    id,
			Ref:         c.field(row, "driverRef"),
			Number:      c.intPtr(row, "number"),
			Forename:    c.field(row, "forename"),
			Surname:     c.field(row, "surname"),
			Nationality: c.field(row, "nationality"),
		}
		if code := c.field(row, "code"); code != "" {
			d.Code = &code
		}
		if dob := c.field(row, "dob"); dob != "" {
			d.DateOfBirth = &dob
		}
		batch = append(batch, d)
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// loadStatuses keeps the statusId->text mapping in memory; session entries
// store the resolved text.
func (l *loader) loadStatuses() (int, error) {
	c, err := l.read("status.csv")
	if err != nil {
		return 0, err
	}
	for _, row := range c.rows {
		id, ok := c.intField(row, "statusId")
		if !ok {
			l.skipped++
			continue
		}
		l.statuses[id] = c.field(row, "status")
	}
	return len(l.statuses), nil
}

// teamDriverID returns (creating on demand) the roster entry for a
// team/driver pair.
func (l *loader) teamDriverID(teamID, driverID int) (int, error) {
	key := [2]int{teamID, driverID}
	if id, ok := l.teamDrivers[key]; ok {
		return id, nil
	}
	l.nextTeamDriverID++
	id := l.nextTeamDriverID
	td := []models.TeamDriver{{TeamDriverID: id, TeamID: teamID, DriverID: driverID}}
	if err := bulkInsert(l.ctx, l.db, td); err != nil {
		return 0, err
	}
	l.teamDrivers[key] = id
	return id, nil
}

// roundEntryID returns (creating on demand) the round entry for a
// race/driver pair.
func (l *loader) roundEntryID(raceID, driverID, teamID int, carNumber *int) (int, error) {
	key := [2]int{raceID, driverID}
	if id, ok := l.roundEntries[key]; ok {
		return id, nil
	}
	tdID, err := l.teamDriverID(teamID, driverID)
	if err != nil {
		return 0, err
	}
	l.nextRoundEntryID++
	id := l.nextRoundEntryID
	re := []models.RoundEntry{{
		RoundEntryID: id,
		RoundID:      raceID,
		TeamDriverID: tdID,
		CarNumber:    carNumber,
	}}
	if err := bulkInsert(l.ctx, l.db, re); err != nil {
		return 0, err
	}
	l.roundEntries[key] = id
	return id, nil
}

func (l *loader) loadResults() (int, error) {
	c, err := l.read("results.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.SessionEntry
	total := 0
	for _, row := range c.rows {
		raceID, ok1 := c.intField(row, "raceId")
		driverID, ok2 := c.intField(row, "driverId")
		teamID, ok3 := c.intField(row, "constructorId")
		sessionID, ok4 := l.raceSessions[raceID]
		if !ok1 || !ok2 || !ok3 || !ok4 {
			l.skipped++
			continue
		}

		reID, err := l.roundEntryID(raceID, driverID, teamID, c.intPtr(row, "number"))
		if err != nil {
			return total, err
		}

		status := "Finished"
		if sid, ok := c.intField(row, "statusId"); ok {
			if s, ok := l.statuses[sid]; ok {
				status = s
			}
		}

		l.nextSessionEntryID++
		entry := models.SessionEntry{
			SessionEntryID: l.nextSessionEntryID,
			SessionID:      sessionID,
			RoundEntryID:   reID,
			Grid:           c.intPtr(row, "grid"),
			Position:       c.intPtr(row, "position"),
			ElapsedMs:      c.intPtr(row, "milliseconds"),
			Status:         status,
			FastestLapRank: c.intPtr(row, "rank"),
		}
		if pts, ok := c.floatField(row, "points"); ok {
			entry.Points = pts
		}
		if laps, ok := c.intField(row, "laps"); ok {
			entry.LapsCompleted = laps
		}
		if ms, ok := lapTimeToMs(c.field(row, "fastestLapTime")); ok {
			entry.BestLapTimeMs = &ms
		}
		l.raceEntries[[2]int{raceID, driverID}] = l.nextSessionEntryID

		batch = append(batch, entry)
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadQualifying() (int, error) {
	c, err := l.read("qualifying.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.SessionEntry
	total := 0
	for _, row := range c.rows {
		raceID, ok1 := c.intField(row, "raceId")
		driverID, ok2 := c.intField(row, "driverId")
		teamID, ok3 := c.intField(row, "constructorId")
		if !ok1 || !ok2 || !ok3 {
			l.skipped++
			continue
		}

		sessionID, ok := l.qualiSessions[raceID]
		if !ok {
			l.nextSessionID++
			sessionID = l.nextSessionID
			s := []models.Session{{
				SessionID: sessionID,
				RoundID:   raceID,
				Type:      models.SessionQualifying,
			}}
			if err := bulkInsert(l.ctx, l.db, s); err != nil {
				return total, err
			}
			l.qualiSessions[raceID] = sessionID
		}

		reID, err := l.roundEntryID(raceID, driverID, teamID, c.intPtr(row, "number"))
		if err != nil {
			return total, err
		}

		l.nextSessionEntryID++
		entry := models.SessionEntry{
			SessionEntryID: l.nextSessionEntryID,
			SessionID:      sessionID,
			RoundEntryID:   reID,
			Position:       c.intPtr(row, "position"),
			Status:         "Finished",
		}
		// Best qualifying lap = quickest of the three segments.
		for _, col := range []string{"q1", "q2", "q3"} {
			if ms, ok := lapTimeToMs(c.field(row, col)); ok {
				if entry.BestLapTimeMs == nil || ms < *entry.BestLapTimeMs {
					entry.BestLapTimeMs = &ms
				}
			}
		}

		batch = append(batch, entry)
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadLapTimes() (int, error) {
	c, err := l.read("lap_times.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.Lap
	total := 0
	for _, row := range c.rows {
		raceID, ok1 := c.intField(row, "raceId")
		driverID, ok2 := c.intField(row, "driverId")
		number, ok3 := c.intField(row, "lap")
		ms, ok4 := c.floatField(row, "milliseconds")
		entryID, ok5 := l.raceEntries[[2]int{raceID, driverID}]
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			l.skipped++
			continue
		}

		l.nextLapID++
		batch = append(batch, models.Lap{
			LapID:          l.nextLapID,
			SessionEntryID: entryID,
			Number:         number,
			Position:       c.intPtr(row, "position"),
			TimeMs:         ms,
		})
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadPitStops() (int, error) {
	c, err := l.read("pit_stops.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.PitStop
	total := 0
	for _, row := range c.rows {
		raceID, ok1 := c.intField(row, "raceId")
		driverID, ok2 := c.intField(row, "driverId")
		stop, ok3 := c.intField(row, "stop")
		lap, ok4 := c.intField(row, "lap")
		entryID, ok5 := l.raceEntries[[2]int{raceID, driverID}]
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			l.skipped++
			continue
		}

		l.nextPitStopID++
		batch = append(batch, models.PitStop{
			PitStopID:      l.nextPitStopID,
			SessionEntryID: entryID,
			StopNumber:     stop,
			LapNumber:      lap,
			DurationMs:     c.floatPtr(row, "milliseconds"),
		})
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadDriverStandings() (int, error) {
	c, err := l.read("driver_standings.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.DriverStanding
	total := 0
	for _, row := range c.rows {
		id, ok1 := c.intField(row, "driverStandingsId")
		raceID, ok2 := c.intField(row, "raceId")
		driverID, ok3 := c.intField(row, "driverId")
		if !ok1 || !ok2 || !ok3 {
			l.skipped++
			continue
		}
		ds := models.DriverStanding{
			DriverStandingID: id,
			RoundID:          raceID,
			DriverID:         driverID,
			Position:         c.intPtr(row, "position"),
		}
		if pts, ok := c.floatField(row, "points"); ok {
			ds.Points = pts
		}
		if wins, ok := c.intField(row, "wins"); ok {
			ds.Wins = wins
		}
		batch = append(batch, ds)
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

func (l *loader) loadTeamStandings() (int, error) {
	c, err := l.read("constructor_standings.csv")
	if err != nil {
		return 0, err
	}

	var batch []models.TeamStanding
	total := 0
	for _, row := range c.rows {
		id, ok1 := c.intField(row, "constructorStandingsId")
		raceID, ok2 := c.intField(row, "raceId")
		teamID, ok3 := c.intField(row, "constructorId")
		if !ok1 || !ok2 || !ok3 {
			l.skipped++
			continue
		}
		ts := models.TeamStanding{
			TeamStandingID: id,
			RoundID:        raceID,
			TeamID:         teamID,
			Position:       c.intPtr(row, "position"),
		}
		if pts, ok := c.floatField(row, "points"); ok {
			ts.Points = pts
		}
		if wins, ok := c.intField(row, "wins"); ok {
			ts.Wins = wins
		}
		batch = append(batch, ts)
		if batch, err = flushBatch(l.ctx, l.db, batch, &total); err != nil {
			return total, err
		}
	}
	if err := bulkInsert(l.ctx, l.db, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}
