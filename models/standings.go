package models

import "github.com/uptrace/bun"

// DriverStanding is a championship snapshot for a driver as of a round.
type DriverStanding struct {
	bun.BaseModel `bun:"table:driver_standings,alias:ds"`

	DriverStandingID int     `bun:"driver_standing_id,pk" json:"driverStandingID"`
	RoundID          int     `bun:"round_id,notnull" json:"roundID"`
	DriverID         int     `bun:"driver_id,notnull" json:"driverID"`
	Points           float64 `bun:"points,notnull,default:0" json:"points"`
	Position         *int    `bun:"position" json:"position,omitempty"`
	Wins             int     `bun:"wins,notnull,default:0" json:"wins"`

	Round  *Round  `bun:"rel:belongs-to,join:round_id=round_id" json:"-"`
	Driver *Driver `bun:"rel:belongs-to,join:driver_id=driver_id" json:"-"`
}

// TeamStanding is a championship snapshot for a constructor as of a round.
type TeamStanding struct {
	bun.BaseModel `bun:"table:team_standings,alias:ts"`

	TeamStandingID int     `bun:"team_standing_id,pk" json:"teamStandingID"`
	RoundID        int     `bun:"round_id,notnull" json:"roundID"`
	TeamID         int     `bun:"team_id,notnull" json:"teamID"`
	Points         float64 `bun:"points,notnull,default:0" json:"points"`
	Position       *int    `bun:"position" json:"position,omitempty"`
	Wins           int     `bun:"wins,notnull,default:0" json:"wins"`

	Round *Round `bun:"rel:belongs-to,join:round_id=round_id" json:"-"`
	Team  *Team  `bun:"rel:belongs-to,join:team_id=team_id" json:"-"`
}
