package utils

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"moviehub/pkg/database"
)

// LoadDotEnv loads a local .env file if one exists. Call once at process
// start, before the other Load* helpers read the environment.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
}

// LoadDBConfig resolves the sqlite location: MOVIEHUB_DB_PATH when
// set, otherwise ~/.moviehub/data.db.
func LoadDBConfig() database.Config {
	cfg := database.Config{BusyTimeout: 5 * time.Second}

	if p := strings.TrimSpace(os.Getenv("MOVIEHUB_DB_PATH")); p != "" {
		cfg.Path = p
		return cfg
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	cfg.Path = filepath.Join(home, ".moviehub", "data.db")
	return cfg
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MOVIEHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("MOVIEHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "moviehub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("MOVIEHUB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	MovieIDs     []int64
	RequestDelay time.Duration
}

// defaultMovieIDs is the fixed extraction list used when MOVIEHUB_MOVIE_IDS
// is not set: a spread of blockbusters, franchises and standalone films.
var defaultMovieIDs = []int64{
	19995,  // Avatar
	597,    // Titanic
	299534, // Avengers: Endgame
	140607, // Star Wars: The Force Awakens
	135397, // Jurassic World
	24428,  // The Avengers
	168259, // Furious 7
	99861,  // Avengers: Age of Ultron
	284054, // Black Panther
	12445,  // Harry Potter and the Deathly Hallows: Part 2
	181808, // Star Wars: The Last Jedi
	330457, // Frozen II
	351286, // Jurassic World: Fallen Kingdom
	109445, // Frozen
	321612, // Beauty and the Beast
	260513, // Incredibles 2
	680,    // Pulp Fiction
	562,    // Die Hard
	95,     // Armageddon
	63,     // Twelve Monkeys
	184,    // Jackie Brown
	24,     // Kill Bill: Vol. 1
	393,    // Kill Bill: Vol. 2
}

func LoadTMDBConfig() TMDBConfig {
	cfg := TMDBConfig{
		APIKey:       os.Getenv("MOVIEHUB_TMDB_API_KEY"),
		BaseURL:      "https://api.themoviedb.org/3",
		MovieIDs:     defaultMovieIDs,
		RequestDelay: 220 * time.Millisecond, // ~4-5 requests/sec
	}

	if base := strings.TrimSpace(os.Getenv("MOVIEHUB_TMDB_BASE_URL")); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	if raw := strings.TrimSpace(os.Getenv("MOVIEHUB_MOVIE_IDS")); raw != "" {
		ids := make([]int64, 0, 32)
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				log.Printf("ignoring invalid movie id %q in MOVIEHUB_MOVIE_IDS", part)
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			cfg.MovieIDs = ids
		}
	}

	return cfg
}
