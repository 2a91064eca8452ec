package models

import "github.com/uptrace/bun"

// Session type tags.
const (
	SessionRace       = "R"
	SessionQualifying = "Q"
	SessionSprint     = "SR"
	SessionPractice1  = "FP1"
	SessionPractice2  = "FP2"
	SessionPractice3  = "FP3"
)

// Session is a timed on-track activity within a round.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	SessionID int     `bun:"session_id,pk" json:"sessionID"`
	RoundID   int     `bun:"round_id,notnull" json:"roundID"`
	Type      string  `bun:"type,notnull" json:"type"`
	Date      *string `bun:"date,type:date" json:"date,omitempty"`

	Round *Round `bun:"rel:belongs-to,join:round_id=round_id" json:"-"`
}

// RoundEntry is a roster entry's participation in a specific round.
type RoundEntry struct {
	bun.BaseModel `bun:"table:round_entries,alias:re"`

	RoundEntryID int  `bun:"round_entry_id,pk" json:"roundEntryID"`
	RoundID      int  `bun:"round_id,notnull" json:"roundID"`
	TeamDriverID int  `bun:"team_driver_id,notnull" json:"teamDriverID"`
	CarNumber    *int `bun:"car_number" json:"carNumber,omitempty"`

	Round      *Round      `bun:"rel:belongs-to,join:round_id=round_id" json:"-"`
	TeamDriver *TeamDriver `bun:"rel:belongs-to,join:team_driver_id=team_driver_id" json:"-"`
}

// SessionEntry is a round entry's participation record within a session.
type SessionEntry struct {
	bun.BaseModel `bun:"table:session_entries,alias:sn"`

	SessionEntryID int      `bun:"session_entry_id,pk" json:"sessionEntryID"`
	SessionID      int      `bun:"session_id,notnull" json:"sessionID"`
	RoundEntryID   int      `bun:"round_entry_id,notnull" json:"roundEntryID"`
	Grid           *int     `bun:"grid" json:"grid,omitempty"`
	Position       *int     `bun:"position" json:"position,omitempty"`
	Points         float64  `bun:"points,notnull,default:0" json:"points"`
	LapsCompleted  int      `bun:"laps_completed,notnull,default:0" json:"lapsCompleted"`
	ElapsedMs      *int     `bun:"elapsed_ms" json:"elapsedMs,omitempty"`
	Status         string   `bun:"status,notnull" json:"status"`
	FastestLapRank *int     `bun:"fastest_lap_rank" json:"fastestLapRank,omitempty"`
	BestLapTimeMs  *float64 `bun:"best_lap_time_ms" json:"bestLapTimeMs,omitempty"`

	Session    *Session    `bun:"rel:belongs-to,join:session_id=session_id" json:"-"`
	RoundEntry *RoundEntry `bun:"rel:belongs-to,join:round_entry_id=round_entry_id" json:"-"`
}
