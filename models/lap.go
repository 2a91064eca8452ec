package models

import "github.com/uptrace/bun"

// Lap is a single timed lap for a session entry.
// Number is unique within the entry.
type Lap struct {
	bun.BaseModel `bun:"table:laps,alias:l"`

	LapID          int      `bun:"lap_id,pk" json:"lapID"`
	SessionEntryID int      `bun:"session_entry_id,notnull" json:"sessionEntryID"`
	Number         int      `bun:"number,notnull" json:"number"`
	Position       *int     `bun:"position" json:"position,omitempty"`
	TimeMs         float64  `bun:"time_ms,notnull" json:"timeMs"`
	AvgSpeed       *float64 `bun:"avg_speed" json:"avgSpeed,omitempty"`

	SessionEntry *SessionEntry `bun:"rel:belongs-to,join:session_entry_id=session_entry_id" json:"-"`
}

// PitStop marks a pit-stop event tied to a lap of a session entry.
type PitStop struct {
	bun.BaseModel `bun:"table:pit_stops,alias:p"`

	PitStopID      int      `bun:"pit_stop_id,pk" json:"pitStopID"`
	SessionEntryID int      `bun:"session_entry_id,notnull" json:"sessionEntryID"`
	StopNumber     int      `bun:"stop_number,notnull" json:"stopNumber"`
	LapNumber      int      `bun:"lap_number,notnull" json:"lapNumber"`
	DurationMs     *float64 `bun:"duration_ms" json:"durationMs,omitempty"`

	SessionEntry *SessionEntry `bun:"rel:belongs-to,join:session_entry_id=session_entry_id" json:"-"`
}
