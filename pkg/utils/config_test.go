package utils

import (
	"testing"
	"time"
)

func TestLoadTMDBConfigDefaults(t *testing.T) {
	t.Setenv("MOVIEHUB_TMDB_API_KEY", "")
	t.Setenv("MOVIEHUB_TMDB_BASE_URL", "")
	t.Setenv("MOVIEHUB_MOVIE_IDS", "")

	cfg := LoadTMDBConfig()
	if cfg.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if len(cfg.MovieIDs) == 0 {
		t.Error("default id list is empty")
	}
	if cfg.RequestDelay <= 0 {
		t.Errorf("request delay = %v", cfg.RequestDelay)
	}
}

func TestLoadTMDBConfigOverrides(t *testing.T) {
	t.Setenv("MOVIEHUB_TMDB_BASE_URL", "http://localhost:9000/")
	t.Setenv("MOVIEHUB_MOVIE_IDS", "603, 604, junk, -5, 605")

	cfg := LoadTMDBConfig()
	if cfg.BaseURL != "http://localhost:9000" {
		t.Errorf("base url = %q, trailing slash must be stripped", cfg.BaseURL)
	}
	want := []int64{603, 604, 605}
	if len(cfg.MovieIDs) != len(want) {
		t.Fatalf("ids = %v", cfg.MovieIDs)
	}
	for i, id := range want {
		if cfg.MovieIDs[i] != id {
			t.Errorf("ids[%d] = %d, want %d", i, cfg.MovieIDs[i], id)
		}
	}
}

func TestLoadAuthConfigTTL(t *testing.T) {
	t.Setenv("MOVIEHUB_JWT_SECRET", "s3cret")
	t.Setenv("MOVIEHUB_JWT_TTL_HOURS", "2")

	cfg := LoadAuthConfig()
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("secret = %q", cfg.JWTSecret)
	}
	if cfg.JWTDuration != 2*time.Hour {
		t.Errorf("duration = %v", cfg.JWTDuration)
	}
}

func TestLoadAuthConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("MOVIEHUB_JWT_TTL_HOURS", "zero")

	cfg := LoadAuthConfig()
	if cfg.JWTDuration != 24*time.Hour {
		t.Errorf("duration = %v, want 24h default", cfg.JWTDuration)
	}
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("MOVIEHUB_DB_PATH", "/tmp/custom/movies.db")
	cfg := LoadDBConfig()
	if cfg.Path != "/tmp/custom/movies.db" {
		t.Errorf("path = %q", cfg.Path)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Errorf("busy timeout = %v", cfg.BusyTimeout)
	}

	t.Setenv("MOVIEHUB_DB_PATH", "")
	cfg = LoadDBConfig()
	if cfg.Path == "" {
		t.Error("default path is empty")
	}
}
