package metadatacache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "mylar.cache"), logging.NewNop())
}

func TestLoadMissingFileYieldsEmptySnapshot(t *testing.T) {
	store := newTestStore(t)

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if snapshot.Len() != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", snapshot.Len())
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := newTestStore(t)

	snapshot, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	snapshot.Put("991", comicvine.Record{"name": "The Quiet Part", "cvurl": "http://cv/q"})
	snapshot.Put("7|3", comicvine.Record{"cvurl": "http://cv/v", "cvres": 404})

	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reloaded.Len())
	}
	record, ok := reloaded.Get("991")
	if !ok || record.Name() != "The Quiet Part" {
		t.Fatalf("unexpected record for 991: %v", record)
	}
	placeholder, ok := reloaded.Get("7|3")
	if !ok || !placeholder.IsPlaceholder() {
		t.Fatalf("expected placeholder for composite key, got %v", placeholder)
	}
}

func TestLoadCorruptFileReturnsErrorAndEmptySnapshot(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	snapshot, err := store.Load()
	if err == nil {
		t.Fatal("expected parse error for corrupt cache")
	}
	if snapshot == nil || snapshot.Len() != 0 {
		t.Fatalf("expected usable empty snapshot alongside error, got %v", snapshot)
	}
}

func TestSaveMergesConcurrentAdditions(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	first.Put("a", comicvine.Record{"name": "A"})

	// A second snapshot taken before the first save lands, as when two
	// sensors refresh back to back.
	second, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	second.Put("b", comicvine.Record{"name": "B"})

	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	final, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := final.Get("a"); !ok {
		t.Fatal("first writer's entry lost by second save")
	}
	if _, ok := final.Get("b"); !ok {
		t.Fatal("second writer's entry missing")
	}
}

func TestSaveWritesWholeObjectAtomically(t *testing.T) {
	store := newTestStore(t)

	snapshot, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	snapshot.Put("k", comicvine.Record{"name": "v"})
	if err := store.Save(snapshot); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("cache file is not a JSON object: %v", err)
	}
}

func TestClearRemovesFile(t *testing.T) {
	store := newTestStore(t)

	snapshot, _ := store.Load()
	snapshot.Put("k", comicvine.Record{"name": "v"})
	if err := store.Save(snapshot); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	count, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty cache after clear, got %d entries", count)
	}

	// Clearing an already-missing file is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}
