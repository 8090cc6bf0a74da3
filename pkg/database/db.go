package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Config describes the sqlite file to open. Pragmas travel in the
// driver DSN so every pooled connection gets them, not just the one
// that ran a post-open statement.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DSN renders the mattn/go-sqlite3 connection string: foreign keys
// enforced, WAL journal, optional busy timeout.
func (c Config) DSN() string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	if c.BusyTimeout > 0 {
		q.Set("_busy_timeout", strconv.Itoa(int(c.BusyTimeout/time.Millisecond)))
	}
	return "file:" + c.Path + "?" + q.Encode()
}

func Open(cfg Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func MustOpen(cfg Config) *sql.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("open database %s: %v", cfg.Path, err)
	}
	return db
}
