package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"buildplan/internal/report"
	"buildplan/pkg/domain"
	"go.uber.org/zap"
)

// ErrNotFound reports a scenario name with no stored payload. All backends
// wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("scenario not found")

// FSStore persists each scenario as one JSON file under a single directory.
// It is the default backend and shares its payload format with the JSON
// report, so a saved scenario is itself a readable report.
type FSStore struct {
	dir    string
	logger *zap.Logger
}

// NewFSStore constructs a file-backed store rooted at dir. The directory is
// created on first save. A nil logger discards.
func NewFSStore(dir string, logger *zap.Logger) *FSStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSStore{dir: dir, logger: logger}
}

// Dir returns the scenario directory.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) Save(_ context.Context, sc domain.Scenario) error {
	if err := domain.ValidateName(sc.Name); err != nil {
		return err
	}
	payload, err := report.Encode(sc, scenarioTotals(sc))
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, sc.Name+".json")
	if err := report.WriteFileAtomic(path, payload); err != nil {
		return domain.WriteError{Path: path, Err: err}
	}
	s.logger.Info("scenario saved",
		zap.String("path", path),
		zap.String("scenario", sc.Name))
	return nil
}

func (s *FSStore) Load(_ context.Context, name string) (domain.Scenario, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.Scenario{}, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Scenario{}, fmt.Errorf("scenario %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	return report.Decode(data)
}

// Latest returns the most recently written scenario, by file modification
// time with the name as tiebreak. The second return is false when the
// directory holds no scenarios yet.
func (s *FSStore) Latest(ctx context.Context) (domain.Scenario, bool, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Scenario{}, false, nil
	}
	if err != nil {
		return domain.Scenario{}, false, fmt.Errorf("scan scenario dir: %w", err)
	}

	var (
		bestName string
		bestTime time.Time
		found    bool
	)
	for _, entry := range entries {
		name, ok := scenarioFileName(entry)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return domain.Scenario{}, false, fmt.Errorf("stat scenario %q: %w", name, err)
		}
		if !found || info.ModTime().After(bestTime) ||
			(info.ModTime().Equal(bestTime) && name > bestName) {
			bestName, bestTime, found = name, info.ModTime(), true
		}
	}
	if !found {
		return domain.Scenario{}, false, nil
	}
	sc, err := s.Load(ctx, bestName)
	if err != nil {
		return domain.Scenario{}, false, err
	}
	return sc, true, nil
}

func (s *FSStore) List(_ context.Context) ([]domain.ScenarioInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan scenario dir: %w", err)
	}

	var infos []domain.ScenarioInfo
	for _, entry := range entries {
		name, ok := scenarioFileName(entry)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat scenario %q: %w", name, err)
		}
		infos = append(infos, domain.ScenarioInfo{Name: name, SavedAt: info.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func scenarioFileName(entry os.DirEntry) (string, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
		return "", false
	}
	return strings.TrimSuffix(entry.Name(), ".json"), true
}

// scenarioTotals sums the chosen parts directly. Persisted payloads carry
// totals for readers; report rows are recomputed against the live catalog on
// load and are not stored.
func scenarioTotals(sc domain.Scenario) domain.Summary {
	var sum domain.Summary
	for _, p := range sc.Chosen {
		sum.TotalWeightGrams += p.WeightGrams
		sum.TotalPrice += p.Price
	}
	return sum
}
