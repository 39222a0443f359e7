package migrations

import (
	"io/fs"
	"sort"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		t.Fatal("expected migrations to be embedded")
	}
	sort.Strings(files)
	if files[0] != "001_draw_state.sql" {
		t.Fatalf("expected first migration 001_draw_state.sql, got %s", files[0])
	}
}
