package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"buildplan/pkg/domain"
)

var fixedCreatedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func forkPart() domain.Part {
	return domain.Part{Category: "Fork", Brand: "RockShox", Model: "Reba RL", Variant: "29 100mm", WeightGrams: 1650, Price: 689}
}

func wheelPart() domain.Part {
	return domain.Part{Category: "Wheelset", Brand: "DT Swiss", Model: "XR 1700 SPLINE 29", Variant: "Boost", WeightGrams: 1672, Price: 1250}
}

func testScenario(name string, parts ...domain.Part) domain.Scenario {
	s := domain.NewScenario(name, fixedCreatedAt)
	for _, p := range parts {
		s.Choose(p.Category, p)
	}
	return s
}

// eachBackend runs fn against every store implementation so the drivers
// cannot drift apart behaviourally.
func eachBackend(t *testing.T, fn func(t *testing.T, store domain.ScenarioStore)) {
	t.Helper()
	t.Run("fs", func(t *testing.T) {
		fn(t, NewFSStore(filepath.Join(t.TempDir(), "scenarios"), nil))
	})
	t.Run("sqlite", func(t *testing.T) {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "buildplan.db"), nil)
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		fn(t, store)
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func TestStoreRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		ctx := context.Background()
		saved := testScenario("Ultra-Light-01", forkPart(), wheelPart())
		if err := store.Save(ctx, saved); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := store.Load(ctx, "Ultra-Light-01")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if loaded.Name != saved.Name {
			t.Fatalf("Name = %q, want %q", loaded.Name, saved.Name)
		}
		if !loaded.CreatedAt.Equal(saved.CreatedAt) {
			t.Fatalf("CreatedAt = %v, want %v", loaded.CreatedAt, saved.CreatedAt)
		}
		if !reflect.DeepEqual(loaded.Chosen, saved.Chosen) {
			t.Fatalf("Chosen = %v, want %v", loaded.Chosen, saved.Chosen)
		}
	})
}

func TestStoreLoadMissing(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		_, err := store.Load(context.Background(), "never-saved")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestStoreLatestPrefersMostRecent(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		ctx := context.Background()
		if err := store.Save(ctx, testScenario("alpha", forkPart())); err != nil {
			t.Fatalf("Save alpha: %v", err)
		}
		if err := store.Save(ctx, testScenario("bravo", wheelPart())); err != nil {
			t.Fatalf("Save bravo: %v", err)
		}

		latest, ok, err := store.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if !ok || latest.Name != "bravo" {
			t.Fatalf("Latest = %q ok=%v, want bravo", latest.Name, ok)
		}
	})
}

func TestStoreLatestEmpty(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		_, ok, err := store.Latest(context.Background())
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if ok {
			t.Fatal("Latest reported a scenario in an empty store")
		}
	})
}

func TestStoreListSortedByName(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		ctx := context.Background()
		for _, name := range []string{"zulu", "alpha", "mike"} {
			if err := store.Save(ctx, testScenario(name, forkPart())); err != nil {
				t.Fatalf("Save %s: %v", name, err)
			}
		}

		infos, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var names []string
		for _, info := range infos {
			names = append(names, info.Name)
		}
		if !reflect.DeepEqual(names, []string{"alpha", "mike", "zulu"}) {
			t.Fatalf("names = %v, want sorted", names)
		}
	})
}

func TestStoreSaveOverwrites(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		ctx := context.Background()
		if err := store.Save(ctx, testScenario("rebuild", forkPart())); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := store.Save(ctx, testScenario("rebuild", wheelPart())); err != nil {
			t.Fatalf("Save again: %v", err)
		}

		loaded, err := store.Load(ctx, "rebuild")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if _, ok := loaded.Pick("Wheelset"); !ok {
			t.Fatalf("Chosen = %v, want the overwriting picks", loaded.Chosen)
		}
		if _, ok := loaded.Pick("Fork"); ok {
			t.Fatal("old picks survived the overwrite")
		}

		infos, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(infos) != 1 {
			t.Fatalf("List = %v, want a single entry", infos)
		}
	})
}

func TestStoreRejectsUnsafeNames(t *testing.T) {
	eachBackend(t, func(t *testing.T, store domain.ScenarioStore) {
		ctx := context.Background()
		for _, name := range []string{"", "..", "../escape", "a/b", `a\b`} {
			err := store.Save(ctx, testScenario(name, forkPart()))
			var invalid domain.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("Save(%q) err = %v, want InvalidInputError", name, err)
			}
			if _, err := store.Load(ctx, name); !errors.As(err, &invalid) {
				t.Fatalf("Load(%q) err = %v, want InvalidInputError", name, err)
			}
		}
	})
}
