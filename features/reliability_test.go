package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status string
		dnf    bool
		mech   bool
	}{
		{"Finished", false, false},
		{"+1 Lap", false, false},
		{"+2 Laps", false, false},
		{"Engine", true, true},
		{"Gearbox", true, true},
		{"Hydraulics", true, true},
		{"Power Unit", true, true},
		{"Collision", true, false},
		{"Accident", true, false},
		{"Disqualified", true, false},
		{"Spun off", true, false},
	}
	for _, c := range cases {
		t.Run(c.status, func(t *testing.T) {
			assert.Equal(t, c.dnf, isDNF(c.status))
			assert.Equal(t, c.mech, isMechanicalDNF(c.status))
		})
	}
}

func TestComputeReliability(t *testing.T) {
	results := makeTable(resultCols,
		raceResult(2024, 1, 1, "Red Bull", int64(1), int64(1), 25, "Finished"),
		raceResult(2024, 2, 1, "Red Bull", int64(1), nil, 0, "Engine"),
		raceResult(2024, 3, 1, "Red Bull", int64(2), nil, 0, "Collision"),
		raceResult(2024, 4, 1, "Red Bull", int64(1), int64(2), 18, "+1 Lap"),
		raceResult(2024, 1, 2, "McLaren", int64(5), int64(5), 10, "Finished"),
		raceResult(2025, 1, 1, "Red Bull", int64(1), int64(1), 25, "Finished"),
	)

	out, err := computeReliability(results)
	require.NoError(t, err)
	assert.Equal(t, reliabilityColumns, out.Columns)
	require.Len(t, out.Rows, 3)

	// Sorted by year then driver.
	d1 := out.Rows[0]
	id, _ := d1.Int("driver_id")
	require.Equal(t, int64(1), id)
	year, _ := d1.Int("year")
	require.Equal(t, int64(2024), year)

	entries, _ := d1.Int("entries")
	assert.Equal(t, int64(4), entries)
	dnfs, _ := d1.Int("dnfs")
	assert.Equal(t, int64(2), dnfs)
	mech, _ := d1.Int("mechanical_dnfs")
	assert.Equal(t, int64(1), mech)

	rate, ok := d1.Float("dnf_rate")
	require.True(t, ok)
	assert.Equal(t, 0.5, rate)
	mrate, ok := d1.Float("mechanical_dnf_rate")
	require.True(t, ok)
	assert.Equal(t, 0.25, mrate)

	// Clean season for the same driver the following year.
	d1next := out.Rows[2]
	year, _ = d1next.Int("year")
	require.Equal(t, int64(2025), year)
	rate, _ = d1next.Float("dnf_rate")
	assert.Equal(t, 0.0, rate)
}
