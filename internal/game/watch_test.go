package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "characters.yaml")
	writeFile(t, path, "a")

	var changed []string
	w := NewFileWatcher([]string{path}, time.Hour, func(p string) { changed = append(changed, p) })
	w.scanAll(true)
	w.scanAll(false)
	if len(changed) != 0 {
		t.Fatalf("unchanged file reported: %v", changed)
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	w.scanAll(false)
	if len(changed) != 1 || changed[0] != path {
		t.Fatalf("expected one change, got %v", changed)
	}
	w.Stop()
	w.Stop()
}

func TestWatchCatalogReloads(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeFile(t, l.Paths().CatalogPath(), catalogFile)
	cat, err := NewCatalog(l)
	if err != nil {
		t.Fatal(err)
	}

	var reloadErr error
	w := WatchCatalog(cat, time.Hour, func(err error) { reloadErr = err })
	w.scanAll(true)

	writeFile(t, l.Paths().CatalogPath(), "characters:\n  - {id: solo, tier: Common}\n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(l.Paths().CatalogPath(), later, later); err != nil {
		t.Fatal(err)
	}
	w.scanAll(false)
	if reloadErr != nil {
		t.Fatalf("reload: %v", reloadErr)
	}
	if cat.Len() != 1 {
		t.Fatalf("catalog not reloaded, len=%d", cat.Len())
	}
}
