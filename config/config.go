// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Path to the SQLite store populated by cmd/load.
	DBPath string

	// Directory of raw CSV dumps consumed by cmd/load.
	RawDir string

	// Directory where the pipeline writes feature CSVs.
	FeaturesDir string

	// Season restricts reporting queries to a single year. 0 = all seasons.
	Season int

	Debug bool
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("F1_DB_PATH", "data/processed/f1.db")
	v.SetDefault("F1_RAW_DIR", "data/raw")
	v.SetDefault("F1_FEATURES_DIR", "data/features")
	v.SetDefault("F1_SEASON", 0)
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DBPath:      v.GetString("F1_DB_PATH"),
		RawDir:      v.GetString("F1_RAW_DIR"),
		FeaturesDir: v.GetString("F1_FEATURES_DIR"),
		Season:      v.GetInt("F1_SEASON"),
		Debug:       v.GetBool("DEBUG"),
	}

	cfg.validate()
	return cfg
}

// SQLiteDSN returns the connection string for the store file.
// Shared cache keeps in-memory databases visible across connections.
func (c *Config) SQLiteDSN() string {
	return "file:" + c.DBPath + "?cache=shared"
}

func (c *Config) validate() {
	if c.DBPath == "" {
		log.Fatal("config: F1_DB_PATH must be set")
	}
	if c.FeaturesDir == "" {
		log.Fatal("config: F1_FEATURES_DIR must be set")
	}
	if c.Season < 0 {
		log.Fatal("config: F1_SEASON must be a year or 0 for all seasons")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (CI uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}
