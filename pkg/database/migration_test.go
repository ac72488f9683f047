package database

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_blocks.sql", "0001_init.sql", "README.md", "broken.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	migrations, err := ListMigrations(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("want 2 migrations, got %d: %+v", len(migrations), migrations)
	}
	if migrations[0].Version != "0001" || migrations[0].Name != "init" {
		t.Errorf("first migration: got %+v", migrations[0])
	}
	if migrations[1].Version != "0002" || migrations[1].Name != "blocks" {
		t.Errorf("second migration: got %+v", migrations[1])
	}
}

func TestListMigrations_MissingDir(t *testing.T) {
	if _, err := ListMigrations(filepath.Join(t.TempDir(), "nope"), zap.NewNop()); err == nil {
		t.Fatal("want error for missing directory")
	}
}
