package models

import "github.com/uptrace/bun"

// Season is a championship year.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:se"`

	Year int `bun:"year,pk" json:"year"`
}
