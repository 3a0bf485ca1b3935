// Package config resolves runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultCatalogPath = "parts.csv"
	DefaultScenarioDir = "scenarios"
	DefaultReportDir   = "reports"
	DefaultCurrency    = "SGD"
	DefaultLogLevel    = "warn"
)

// Config carries the resolved runtime settings.
//
//	BUILDPLAN_CATALOG: catalog csv path (default parts.csv)
//	BUILDPLAN_SCENARIO_DIR: saved scenario directory (default scenarios)
//	BUILDPLAN_REPORT_DIR: report output directory (default reports)
//	BUILDPLAN_STORAGE_DRIVER: fs|sqlite|memory (default fs)
//	BUILDPLAN_SQLITE_PATH: sqlite file when driver=sqlite
//	BUILDPLAN_CURRENCY: price label in output (default SGD)
//	BUILDPLAN_LOG_LEVEL: zap level for diagnostics (default warn)
type Config struct {
	CatalogPath   string
	ScenarioDir   string
	ReportDir     string
	StorageDriver string
	SQLitePath    string
	Currency      string
	LogLevel      string
}

// Load reads a .env file from the working directory when one exists, then
// resolves every setting. Real environment variables win over file values.
// A missing .env is normal; a malformed one is an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Config{
		CatalogPath:   envOr("BUILDPLAN_CATALOG", DefaultCatalogPath),
		ScenarioDir:   envOr("BUILDPLAN_SCENARIO_DIR", DefaultScenarioDir),
		ReportDir:     envOr("BUILDPLAN_REPORT_DIR", DefaultReportDir),
		StorageDriver: os.Getenv("BUILDPLAN_STORAGE_DRIVER"),
		SQLitePath:    os.Getenv("BUILDPLAN_SQLITE_PATH"),
		Currency:      envOr("BUILDPLAN_CURRENCY", DefaultCurrency),
		LogLevel:      envOr("BUILDPLAN_LOG_LEVEL", DefaultLogLevel),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
