package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFSStoreLatestByModTime(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	store := NewFSStore(dir, nil)
	ctx := context.Background()

	if err := store.Save(ctx, testScenario("bravo", forkPart())); err != nil {
		t.Fatalf("Save bravo: %v", err)
	}
	if err := store.Save(ctx, testScenario("alpha", wheelPart())); err != nil {
		t.Fatalf("Save alpha: %v", err)
	}
	// Push alpha clearly past bravo so the modification time, not the name,
	// decides.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "alpha.json"), future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	latest, ok, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !ok || latest.Name != "alpha" {
		t.Fatalf("Latest = %q ok=%v, want alpha", latest.Name, ok)
	}
}

func TestFSStorePayloadIsReadableReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	store := NewFSStore(dir, nil)

	if err := store.Save(context.Background(), testScenario("Ultra-Light-01", forkPart(), wheelPart())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Ultra-Light-01.json"))
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	for _, want := range []string{`"name": "Ultra-Light-01"`, `"weight_g": 3322`, `"price": 1939`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("payload missing %q:\n%s", want, data)
		}
	}
}

func TestFSStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a scenario"), 0o644); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store := NewFSStore(dir, nil)

	if _, ok, err := store.Latest(context.Background()); err != nil || ok {
		t.Fatalf("Latest = ok=%v err=%v, want none", ok, err)
	}
	infos, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("List = %v, want empty", infos)
	}
}

func TestFSStoreMissingDirectory(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "never-created"), nil)
	ctx := context.Background()

	if _, ok, err := store.Latest(ctx); err != nil || ok {
		t.Fatalf("Latest = ok=%v err=%v, want none without error", ok, err)
	}
	if infos, err := store.List(ctx); err != nil || len(infos) != 0 {
		t.Fatalf("List = %v err=%v, want empty without error", infos, err)
	}
	if _, err := store.Load(ctx, "anything"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load err = %v, want ErrNotFound", err)
	}
}
