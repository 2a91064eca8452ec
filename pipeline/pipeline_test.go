package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oaojVSM/f1-analytics/features"
	"github.com/oaojVSM/f1-analytics/pipeline"
	"github.com/oaojVSM/f1-analytics/query"
)

// fakeExtractor returns a fixed table or error.
type fakeExtractor struct {
	name  string
	table *query.Table
	err   error
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(context.Context, features.Source) (*query.Table, error) {
	return f.table, f.err
}

func twoRowTable() *query.Table {
	return &query.Table{
		Columns: []string{"driver_id", "value"},
		Rows: []query.Row{
			{"driver_id": int64(1), "value": 1.5},
			{"driver_id": int64(2), "value": nil},
		},
	}
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	p := pipeline.New(nil, dir, zap.NewNop(),
		&fakeExtractor{name: "pace", table: twoRowTable()},
		&fakeExtractor{name: "performance", err: boom},
		&fakeExtractor{name: "reliability", table: twoRowTable()},
	)
	report := p.Run(context.Background())
	require.Len(t, report.Results, 3)

	t.Run("one failure does not block siblings", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(dir, "pace_features.csv"))
		assert.FileExists(t, filepath.Join(dir, "reliability_features.csv"))
		assert.NoFileExists(t, filepath.Join(dir, "performance_features.csv"))
	})

	t.Run("report names the failed family", func(t *testing.T) {
		assert.Equal(t, []string{"performance"}, report.Failed())
		require.Error(t, report.Err())
		assert.ErrorContains(t, report.Err(), "performance")
	})

	t.Run("successful results carry row counts", func(t *testing.T) {
		assert.Equal(t, 2, report.Results[0].Rows)
		assert.NoError(t, report.Results[0].Err)
		assert.ErrorIs(t, report.Results[1].Err, boom)
	})
}

func TestPipelineRunAllSucceed(t *testing.T) {
	dir := t.TempDir()
	p := pipeline.New(nil, dir, zap.NewNop(),
		&fakeExtractor{name: "pace", table: twoRowTable()},
		&fakeExtractor{name: "experience", table: twoRowTable()},
	)
	report := p.Run(context.Background())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Failed())
}

func TestWriteTableCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := &query.Table{
		Columns: []string{"year", "name", "rate", "flag"},
		Rows: []query.Row{
			{"year": int64(2024), "name": "Max Verstappen", "rate": 0.25, "flag": true},
			{"year": int64(2024), "name": "Sergio Perez", "rate": nil, "flag": false},
		},
	}
	require.NoError(t, pipeline.WriteTableCSV(path, table))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"year,name,rate,flag\n"+
			"2024,Max Verstappen,0.25,1\n"+
			"2024,Sergio Perez,,0\n",
		string(b))
}
