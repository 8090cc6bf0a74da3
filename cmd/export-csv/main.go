package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"moviehub/internal/movie"
	"moviehub/pkg/database"
	"moviehub/pkg/models"
	"moviehub/pkg/utils"
)

var movieHeader = []string{
	"id", "title", "tagline", "release_date", "genres", "collection_name",
	"original_language", "budget_musd", "revenue_musd", "production_companies",
	"production_countries", "vote_count", "vote_average", "popularity",
	"runtime", "overview", "spoken_languages", "poster_path", "cast",
	"cast_size", "director", "crew_size", "profit_musd", "roi",
}

func main() {
	var (
		moviesOut    = flag.String("movies", "data/movies.csv", "output CSV path for movies")
		watchlistOut = flag.String("watchlist", "data/watchlist.csv", "output CSV path for watchlist entries")
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

	if err := exportMovies(ctx, db, *moviesOut); err != nil {
		log.Fatalf("export movies failed: %v", err)
	}
	if err := exportWatchlist(ctx, db, *watchlistOut); err != nil {
		log.Fatalf("export watchlist failed: %v", err)
	}

	log.Printf("✅ exported movies to %s and watchlist to %s", *moviesOut, *watchlistOut)
}

func exportMovies(ctx context.Context, db *sql.DB, outPath string) error {
	rows, err := movie.NewRepo(db).All(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(movieHeader); err != nil {
		return err
	}
	for _, m := range rows {
		if err := w.Write(movieRecord(m)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func movieRecord(m models.Movie) []string {
	return []string{
		strconv.FormatInt(m.ID, 10),
		m.Title,
		m.Tagline,
		m.ReleaseDate,
		m.Genres,
		m.CollectionName,
		m.OriginalLanguage,
		floatField(m.BudgetMUSD),
		floatField(m.RevenueMUSD),
		m.ProductionCompanies,
		m.ProductionCountries,
		strconv.FormatInt(m.VoteCount, 10),
		floatField(m.VoteAverage),
		strconv.FormatFloat(m.Popularity, 'f', -1, 64),
		intField(m.Runtime),
		m.Overview,
		m.SpokenLanguages,
		m.PosterPath,
		m.Cast,
		strconv.Itoa(m.CastSize),
		m.Director,
		strconv.Itoa(m.CrewSize),
		floatField(m.ProfitMUSD),
		floatField(m.ROI),
	}
}

func exportWatchlist(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "movie_id", "status", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, movie_id, status, updated_at
        FROM watchlist
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID    string
			movieID   int64
			status    sql.NullString
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&userID, &movieID, &status, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			userID,
			strconv.FormatInt(movieID, 10),
			status.String,
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intField(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
