package database

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpenAppliesDSNPragmas(t *testing.T) {
	cfg := Config{
		Path:        filepath.Join(t.TempDir(), "pragmas.db"),
		BusyTimeout: time.Second,
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "fk.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO watchlist (user_id, movie_id, status)
		VALUES ('no-such-user', 1, 'planned')
	`)
	if err == nil {
		t.Fatal("orphan watchlist row accepted, foreign keys are off")
	}
}
