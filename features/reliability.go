package features

import (
	"context"
	"fmt"
	"sort"

	"github.com/oaojVSM/f1-analytics/queries"
	"github.com/oaojVSM/f1-analytics/query"
)

// Reliability aggregates DNF and mechanical-failure rates per driver/season.
type Reliability struct {
	season int
}

func NewReliability(season int) *Reliability { return &Reliability{season: season} }

func (r *Reliability) Name() string { return "reliability" }

func (r *Reliability) Extract(ctx context.Context, src Source) (*query.Table, error) {
	resultsTable, err := src.RunQuery(ctx, queries.RaceResultsReport, r.season)
	if err != nil {
		return nil, fmt.Errorf("reliability: loading results: %w", err)
	}
	return computeReliability(resultsTable)
}

var reliabilityColumns = []string{
	"driver_id", "driver_full_name", "year", "entries", "dnfs", "dnf_rate",
	"mechanical_dnfs", "mechanical_dnf_rate",
}

type reliabilityStat struct {
	driver  string
	entries int
	dnfs    int
	mech    int
}

type driverYearKey struct {
	driverID int64
	year     int
}

func computeReliability(resultsTable *query.Table) (*query.Table, error) {
	results, err := parseResultRows(resultsTable)
	if err != nil {
		return nil, err
	}

	stats := make(map[driverYearKey]*reliabilityStat)
	for _, r := range results {
		k := driverYearKey{r.driverID, r.year}
		st := stats[k]
		if st == nil {
			st = &reliabilityStat{driver: r.driver}
			stats[k] = st
		}
		st.entries++
		if isDNF(r.status) {
			st.dnfs++
			if isMechanicalDNF(r.status) {
				st.mech++
			}
		}
	}

	keys := make([]driverYearKey, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		return a.driverID < b.driverID
	})

	out := &query.Table{Columns: reliabilityColumns}
	for _, k := range keys {
		st := stats[k]
		row := query.Row{
			"driver_id":           k.driverID,
			"driver_full_name":    st.driver,
			"year":                int64(k.year),
			"entries":             int64(st.entries),
			"dnfs":                int64(st.dnfs),
			"dnf_rate":            nil,
			"mechanical_dnfs":     int64(st.mech),
			"mechanical_dnf_rate": nil,
		}
		if st.entries > 0 {
			row["dnf_rate"] = float64(st.dnfs) / float64(st.entries)
			row["mechanical_dnf_rate"] = float64(st.mech) / float64(st.entries)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
