package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"moviehub/internal/movie"
	"moviehub/pkg/database"
	"moviehub/pkg/models"
	"moviehub/pkg/utils"
)

func main() {
	var (
		moviesIn    = flag.String("movies", "data/movies.csv", "input CSV path for movies")
		watchlistIn = flag.String("watchlist", "", "input CSV path for watchlist entries (empty skips)")
	)
	flag.Parse()

	utils.LoadDotEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(utils.LoadDBConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := importMovies(ctx, db, *moviesIn)
	if err != nil {
		log.Fatalf("import movies failed: %v", err)
	}
	log.Printf("imported %d movies from %s", n, *moviesIn)

	if *watchlistIn != "" {
		if err := importWatchlist(ctx, db, *watchlistIn); err != nil {
			log.Fatalf("import watchlist failed: %v", err)
		}
		log.Printf("imported watchlist from %s", *watchlistIn)
	}
}

func importMovies(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	var rows []models.Movie
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if len(row) == 0 {
			continue
		}

		m, err := parseMovie(header, row)
		if err != nil {
			return 0, err
		}
		if m == nil {
			continue
		}
		rows = append(rows, *m)
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if err := movie.NewRepo(db).Upsert(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// parseMovie maps one CSV record onto a Movie. Rows without an id or
// title are skipped (nil, nil).
func parseMovie(header map[string]int, row []string) (*models.Movie, error) {
	idRaw := valueAt(header, row, "id")
	title := valueAt(header, row, "title")
	if idRaw == "" || title == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", idRaw, err)
	}

	m := models.Movie{
		ID:                  id,
		Title:               title,
		Tagline:             valueAt(header, row, "tagline"),
		ReleaseDate:         valueAt(header, row, "release_date"),
		Genres:              valueAt(header, row, "genres"),
		CollectionName:      valueAt(header, row, "collection_name"),
		OriginalLanguage:    valueAt(header, row, "original_language"),
		ProductionCompanies: valueAt(header, row, "production_companies"),
		ProductionCountries: valueAt(header, row, "production_countries"),
		Overview:            valueAt(header, row, "overview"),
		SpokenLanguages:     valueAt(header, row, "spoken_languages"),
		PosterPath:          valueAt(header, row, "poster_path"),
		Cast:                valueAt(header, row, "cast"),
		Director:            valueAt(header, row, "director"),
	}

	if m.BudgetMUSD, err = parseFloatPtr(valueAt(header, row, "budget_musd")); err != nil {
		return nil, fmt.Errorf("parse budget_musd for %d: %w", id, err)
	}
	if m.RevenueMUSD, err = parseFloatPtr(valueAt(header, row, "revenue_musd")); err != nil {
		return nil, fmt.Errorf("parse revenue_musd for %d: %w", id, err)
	}
	if m.VoteAverage, err = parseFloatPtr(valueAt(header, row, "vote_average")); err != nil {
		return nil, fmt.Errorf("parse vote_average for %d: %w", id, err)
	}
	if m.ProfitMUSD, err = parseFloatPtr(valueAt(header, row, "profit_musd")); err != nil {
		return nil, fmt.Errorf("parse profit_musd for %d: %w", id, err)
	}
	if m.ROI, err = parseFloatPtr(valueAt(header, row, "roi")); err != nil {
		return nil, fmt.Errorf("parse roi for %d: %w", id, err)
	}
	if m.Runtime, err = parseIntPtr(valueAt(header, row, "runtime")); err != nil {
		return nil, fmt.Errorf("parse runtime for %d: %w", id, err)
	}
	if m.VoteCount, err = parseIntField(valueAt(header, row, "vote_count")); err != nil {
		return nil, fmt.Errorf("parse vote_count for %d: %w", id, err)
	}
	if m.Popularity, err = parseFloatField(valueAt(header, row, "popularity")); err != nil {
		return nil, fmt.Errorf("parse popularity for %d: %w", id, err)
	}

	castSize, err := parseIntField(valueAt(header, row, "cast_size"))
	if err != nil {
		return nil, fmt.Errorf("parse cast_size for %d: %w", id, err)
	}
	m.CastSize = int(castSize)

	crewSize, err := parseIntField(valueAt(header, row, "crew_size"))
	if err != nil {
		return nil, fmt.Errorf("parse crew_size for %d: %w", id, err)
	}
	m.CrewSize = int(crewSize)

	return &m, nil
}

func importWatchlist(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO watchlist (user_id, movie_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, movie_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		movieIDRaw := valueAt(header, row, "movie_id")
		if userID == "" || movieIDRaw == "" {
			continue
		}
		movieID, err := strconv.ParseInt(movieIDRaw, 10, 64)
		if err != nil {
			return fmt.Errorf("parse movie_id %q: %w", movieIDRaw, err)
		}

		updatedAt, err := parseTime(valueAt(header, row, "updated_at"))
		if err != nil {
			return fmt.Errorf("parse updated_at for %s/%d: %w", userID, movieID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			userID,
			movieID,
			valueAt(header, row, "status"),
			updatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloatPtr(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseIntPtr(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloatField(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseIntField(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
