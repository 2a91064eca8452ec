package models

import "github.com/uptrace/bun"

// Round is one race weekend within a season.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	RoundID   int    `bun:"round_id,pk" json:"roundID"`
	Year      int    `bun:"year,notnull" json:"year"`
	Number    int    `bun:"number,notnull" json:"number"`
	Name      string `bun:"name,notnull" json:"name"`
	Date      string `bun:"date,notnull,type:date" json:"date"`
	CircuitID int    `bun:"circuit_id,notnull" json:"circuitID"`

	Circuit *Circuit `bun:"rel:belongs-to,join:circuit_id=circuit_id" json:"-"`
	Season  *Season  `bun:"rel:belongs-to,join:year=year" json:"-"`
}
