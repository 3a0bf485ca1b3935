package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"buildplan/pkg/domain"
)

// MemoryStore keeps scenarios in process memory only, for tests and
// throwaway runs. Save order decides Latest, so back-to-back saves never
// race the clock.
type MemoryStore struct {
	mu    sync.RWMutex
	saved map[string]memoryEntry
	seq   int
	nowFn func() time.Time
}

type memoryEntry struct {
	scenario domain.Scenario
	savedAt  time.Time
	seq      int
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saved: make(map[string]memoryEntry),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Save(_ context.Context, sc domain.Scenario) error {
	if err := domain.ValidateName(sc.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.saved[sc.Name] = memoryEntry{
		scenario: cloneScenario(sc),
		savedAt:  s.nowFn(),
		seq:      s.seq,
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, name string) (domain.Scenario, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.Scenario{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.saved[name]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("scenario %q: %w", name, ErrNotFound)
	}
	return cloneScenario(entry.scenario), nil
}

func (s *MemoryStore) Latest(_ context.Context) (domain.Scenario, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		best  memoryEntry
		found bool
	)
	for _, entry := range s.saved {
		if !found || entry.seq > best.seq {
			best, found = entry, true
		}
	}
	if !found {
		return domain.Scenario{}, false, nil
	}
	return cloneScenario(best.scenario), true, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.ScenarioInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.ScenarioInfo, 0, len(s.saved))
	for name, entry := range s.saved {
		infos = append(infos, domain.ScenarioInfo{Name: name, SavedAt: entry.savedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// cloneScenario copies the pick map so stored state never aliases caller
// maps.
func cloneScenario(sc domain.Scenario) domain.Scenario {
	out := sc
	if sc.Chosen != nil {
		out.Chosen = make(map[string]domain.Part, len(sc.Chosen))
		for category, part := range sc.Chosen {
			out.Chosen[category] = part
		}
	}
	return out
}
