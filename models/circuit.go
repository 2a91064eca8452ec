package models

import "github.com/uptrace/bun"

// Circuit is a race track.
type Circuit struct {
	bun.BaseModel `bun:"table:circuits,alias:c"`

	CircuitID int    `bun:"circuit_id,pk" json:"circuitID"`
	Ref       string `bun:"ref,notnull,unique" json:"ref"`
	Name      string `bun:"name,notnull" json:"name"`
	Locality  string `bun:"locality,notnull" json:"locality"`
	Country   string `bun:"country,notnull" json:"country"`
}
