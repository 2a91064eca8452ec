package models

import "github.com/uptrace/bun"

// Team is a constructor entering cars.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID      int    `bun:"team_id,pk" json:"teamID"`
	Ref         string `bun:"ref,notnull,unique" json:"ref"`
	Name        string `bun:"name,notnull" json:"name"`
	Nationality string `bun:"nationality,notnull" json:"nationality"`
}

// TeamDriver is a roster entry associating a driver with a team.
type TeamDriver struct {
	bun.BaseModel `bun:"table:team_drivers,alias:td"`

	TeamDriverID int `bun:"team_driver_id,pk" json:"teamDriverID"`
	TeamID       int `bun:"team_id,notnull" json:"teamID"`
	DriverID     int `bun:"driver_id,notnull" json:"driverID"`

	Team   *Team   `bun:"rel:belongs-to,join:team_id=team_id" json:"-"`
	Driver *Driver `bun:"rel:belongs-to,join:driver_id=driver_id" json:"-"`
}
