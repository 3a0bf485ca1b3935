package scenario

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"buildplan/internal/report"
	"buildplan/pkg/domain"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore persists scenarios as JSON payloads in a single table, one row
// per scenario name.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewSQLiteStore opens or creates the database file and ensures the schema.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		path = "buildplan.db"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS scenarios (
		name TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create scenarios table: %w", err)
	}
	return &SQLiteStore{
		db:     db,
		path:   path,
		logger: logger,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(ctx context.Context, sc domain.Scenario) error {
	if err := domain.ValidateName(sc.Name); err != nil {
		return err
	}
	payload, err := report.Encode(sc, scenarioTotals(sc))
	if err != nil {
		return err
	}
	savedAt := s.nowFn().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO scenarios(name, saved_at, payload) VALUES(?,?,?)
		ON CONFLICT(name) DO UPDATE SET saved_at=excluded.saved_at, payload=excluded.payload`,
		sc.Name, savedAt, payload); err != nil {
		return fmt.Errorf("upsert scenario %q: %w", sc.Name, err)
	}
	s.logger.Info("scenario saved",
		zap.String("path", s.path),
		zap.String("scenario", sc.Name))
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (domain.Scenario, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.Scenario{}, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM scenarios WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, fmt.Errorf("scenario %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	return report.Decode(payload)
}

// Latest returns the most recently saved scenario. Timestamps are compared
// in Go after a full scan; the table stays small enough that an index-backed
// query buys nothing.
func (s *SQLiteStore) Latest(ctx context.Context) (domain.Scenario, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at, payload FROM scenarios`)
	if err != nil {
		return domain.Scenario{}, false, fmt.Errorf("select scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		bestTime    time.Time
		bestName    string
		bestPayload []byte
		found       bool
	)
	for rows.Next() {
		var (
			name    string
			savedAt string
			payload []byte
		)
		if err := rows.Scan(&name, &savedAt, &payload); err != nil {
			return domain.Scenario{}, false, fmt.Errorf("scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return domain.Scenario{}, false, fmt.Errorf("parse saved_at for %q: %w", name, err)
		}
		if !found || ts.After(bestTime) || (ts.Equal(bestTime) && name > bestName) {
			bestTime, bestName, bestPayload, found = ts, name, payload, true
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Scenario{}, false, fmt.Errorf("iterate scenarios: %w", err)
	}
	if !found {
		return domain.Scenario{}, false, nil
	}
	sc, err := report.Decode(bestPayload)
	if err != nil {
		return domain.Scenario{}, false, err
	}
	return sc, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.ScenarioInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, saved_at FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []domain.ScenarioInfo
	for rows.Next() {
		var (
			name    string
			savedAt string
		)
		if err := rows.Scan(&name, &savedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at for %q: %w", name, err)
		}
		infos = append(infos, domain.ScenarioInfo{Name: name, SavedAt: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return infos, nil
}
