package models

import "github.com/uptrace/bun"

// Driver represents a racing driver.
type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:d"`

	DriverID    int     `bun:"driver_id,pk" json:"driverID"`
	Ref         string  `bun:"ref,notnull,unique" json:"ref"`
	Number      *int    `bun:"number" json:"number,omitempty"`
	Code        *string `bun:"code" json:"code,omitempty"`
	Forename    string  `bun:"forename,notnull" json:"forename"`
	Surname     string  `bun:"surname,notnull" json:"surname"`
	DateOfBirth *string `bun:"dob,type:date" json:"dateOfBirth,omitempty"`
	Nationality string  `bun:"nationality,notnull" json:"nationality"`
}
