// Package scenario persists and recalls build scenarios behind
// domain.ScenarioStore, with file, sqlite and in-memory backends.
package scenario

import (
	"fmt"

	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// StorageDriver identifies a concrete scenario store implementation.
type StorageDriver string

const (
	DriverFS     StorageDriver = "fs"     // one JSON file per scenario (default)
	DriverSQLite StorageDriver = "sqlite" // embedded sqlite file
	DriverMemory StorageDriver = "memory" // in-memory only (tests / ephemeral)
)

var (
	_ domain.ScenarioStore = (*FSStore)(nil)
	_ domain.ScenarioStore = (*SQLiteStore)(nil)
	_ domain.ScenarioStore = (*MemoryStore)(nil)
)

// Open selects a backend by driver name. An empty driver means fs; dir feeds
// the fs backend and sqlitePath the sqlite one.
func Open(driver StorageDriver, dir, sqlitePath string, logger *zap.Logger) (domain.ScenarioStore, error) {
	switch driver {
	case "", DriverFS:
		return NewFSStore(dir, logger), nil
	case DriverSQLite:
		return NewSQLiteStore(sqlitePath, logger)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
