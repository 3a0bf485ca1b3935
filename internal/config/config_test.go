package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearBuildplanEnv unsets every setting for the test. t.Setenv records the
// prior state for cleanup; the follow-up Unsetenv leaves the variable truly
// absent so .env values can apply.
func clearBuildplanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BUILDPLAN_CATALOG",
		"BUILDPLAN_SCENARIO_DIR",
		"BUILDPLAN_REPORT_DIR",
		"BUILDPLAN_STORAGE_DRIVER",
		"BUILDPLAN_SQLITE_PATH",
		"BUILDPLAN_CURRENCY",
		"BUILDPLAN_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chdir changes into dir until the test ends; testing.T.Chdir needs Go 1.24
// and this module builds with 1.21.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	clearBuildplanEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "parts.csv" || cfg.ScenarioDir != "scenarios" || cfg.ReportDir != "reports" {
		t.Fatalf("paths = %+v, want defaults", cfg)
	}
	if cfg.StorageDriver != "" || cfg.SQLitePath != "" {
		t.Fatalf("storage = %+v, want empty defaults", cfg)
	}
	if cfg.Currency != "SGD" || cfg.LogLevel != "warn" {
		t.Fatalf("cfg = %+v, want SGD and warn", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearBuildplanEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("BUILDPLAN_CATALOG", "inventory/parts.csv")
	t.Setenv("BUILDPLAN_STORAGE_DRIVER", "sqlite")
	t.Setenv("BUILDPLAN_SQLITE_PATH", "state/buildplan.db")
	t.Setenv("BUILDPLAN_CURRENCY", "EUR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "inventory/parts.csv" {
		t.Fatalf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.StorageDriver != "sqlite" || cfg.SQLitePath != "state/buildplan.db" {
		t.Fatalf("storage = %+v", cfg)
	}
	if cfg.Currency != "EUR" {
		t.Fatalf("Currency = %q", cfg.Currency)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	clearBuildplanEnv(t)
	dir := t.TempDir()
	content := "BUILDPLAN_CATALOG=from-file.csv\nBUILDPLAN_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "from-file.csv" || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v, want .env values", cfg)
	}
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	clearBuildplanEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BUILDPLAN_CURRENCY=EUR\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)
	t.Setenv("BUILDPLAN_CURRENCY", "USD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency != "USD" {
		t.Fatalf("Currency = %q, want the real environment to win", cfg.Currency)
	}
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	clearBuildplanEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NOT AN ENV FILE\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed .env")
	}
}
