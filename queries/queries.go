// Package queries embeds the SQL reporting library.
//
// Every query is self-contained, returns a reporting-shaped table and takes a
// single season parameter (?1); passing 0 selects all seasons.
package queries

import (
	"embed"
	"fmt"
)

//go:embed *.sql
var fs embed.FS

// Report query file names.
const (
	LapTimesReport        = "lap_times_report.sql"
	RaceResultsReport     = "race_results_report.sql"
	QualifyReport         = "qualify_report.sql"
	DriverStandingsReport = "driver_standings_report.sql"
)

// Read returns the SQL text of a named query from the embedded library.
func Read(name string) (string, error) {
	b, err := fs.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading query %q: %w", name, err)
	}
	return string(b), nil
}

// Names lists every query in the library.
func Names() []string {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
