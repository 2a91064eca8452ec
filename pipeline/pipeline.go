// Package pipeline runs the feature extractors in order and writes their
// outputs as CSV files.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oaojVSM/f1-analytics/features"
)

// Result records one extractor's outcome.
type Result struct {
	Name     string
	Path     string
	Rows     int
	Duration time.Duration
	Err      error
}

// Report collects the per-extractor results of a run.
type Report struct {
	Results []Result
}

// Failed lists the names of extractors that errored.
func (r *Report) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if res.Err != nil {
			names = append(names, res.Name)
		}
	}
	return names
}

// Err is non-nil unless every extractor succeeded.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("pipeline: %d of %d feature families failed: %s",
		len(failed), len(r.Results), strings.Join(failed, ", "))
}

// Pipeline invokes extractors sequentially against a shared source.
type Pipeline struct {
	src        features.Source
	outDir     string
	log        *zap.Logger
	extractors []features.Extractor
}

// New builds a pipeline writing one CSV per extractor into outDir.
func New(src features.Source, outDir string, log *zap.Logger, extractors ...features.Extractor) *Pipeline {
	return &Pipeline{src: src, outDir: outDir, log: log, extractors: extractors}
}

// Run executes every extractor in order. One failure is recorded and the
// remaining extractors still run; the caller inspects the report for the
// overall outcome.
func (p *Pipeline) Run(ctx context.Context) *Report {
	report := &Report{}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		for _, ex := range p.extractors {
			report.Results = append(report.Results, Result{
				Name: ex.Name(),
				Err:  fmt.Errorf("creating output dir: %w", err),
			})
		}
		return report
	}

	for _, ex := range p.extractors {
		res := Result{
			Name: ex.Name(),
			Path: filepath.Join(p.outDir, ex.Name()+"_features.csv"),
		}
		start := time.Now()

		table, err := ex.Extract(ctx, p.src)
		if err == nil {
			err = WriteTableCSV(res.Path, table)
			res.Rows = len(table.Rows)
		}
		res.Duration = time.Since(start)
		res.Err = err

		switch {
		case err != nil:
			p.log.Error("feature extraction failed",
				zap.String("feature", res.Name), zap.Error(err))
		case res.Rows == 0:
			p.log.Warn("feature table is empty",
				zap.String("feature", res.Name), zap.String("path", res.Path))
		default:
			p.log.Info("feature table written",
				zap.String("feature", res.Name),
				zap.String("path", res.Path),
				zap.Int("rows", res.Rows),
				zap.Duration("took", res.Duration))
		}
		report.Results = append(report.Results, res)
	}
	return report
}
