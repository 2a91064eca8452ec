// Runs the feature pipeline: reads the race store populated by cmd/load,
// derives the pace, performance, reliability and experience tables and writes
// one CSV per family.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/oaojVSM/f1-analytics/config"
	"github.com/oaojVSM/f1-analytics/features"
	applog "github.com/oaojVSM/f1-analytics/logger"
	"github.com/oaojVSM/f1-analytics/pipeline"
	"github.com/oaojVSM/f1-analytics/query"

	bundb "github.com/oaojVSM/f1-analytics/db"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := bundb.Setup(cfg)
	defer bdb.Close()

	logger.Info("starting feature pipeline",
		zap.String("db", cfg.DBPath),
		zap.String("out", cfg.FeaturesDir),
		zap.Int("season", cfg.Season))

	exec := query.NewExecutor(bdb)
	p := pipeline.New(exec, cfg.FeaturesDir, logger, features.Defaults(cfg.Season)...)

	report := p.Run(context.Background())
	if err := report.Err(); err != nil {
		logger.Error("pipeline finished with failures",
			zap.Strings("failed", report.Failed()), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("pipeline completed")
}
