package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"moviehub/internal/movie"
	"moviehub/internal/pipeline"
	"moviehub/internal/tmdb"
	"moviehub/internal/viz"
	"moviehub/pkg/database"
	"moviehub/pkg/utils"
)

func main() {
	var (
		idsFlag   = flag.String("ids", "", "comma-separated TMDB movie IDs (overrides MOVIEHUB_MOVIE_IDS)")
		rawDir    = flag.String("raw-dir", "", "directory for raw JSON dumps (empty disables)")
		chartsOut = flag.String("charts", "", "write the charts dashboard HTML to this file after the run (empty disables)")
		timeout   = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	)
	flag.Parse()

	utils.LoadDotEnv()

	cfg := utils.LoadTMDBConfig()
	if cfg.APIKey == "" {
		log.Fatal("MOVIEHUB_TMDB_API_KEY is not set")
	}

	ids := cfg.MovieIDs
	if *idsFlag != "" {
		parsed, err := parseIDs(*idsFlag)
		if err != nil {
			log.Fatalf("invalid -ids: %v", err)
		}
		ids = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(utils.LoadDBConfig())
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := movie.NewRepo(db)

	runner := &pipeline.Runner{
		Fetcher: tmdb.NewClient(cfg.BaseURL, cfg.APIKey),
		Repo:    repo,
		Delay:   cfg.RequestDelay,
		RawDir:  *rawDir,
	}

	res, err := runner.Run(ctx, ids)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	log.Printf("run %s done: fetched=%d skipped=%d saved=%d",
		res.RunID, res.Fetched, res.Skipped, res.Saved)

	if *chartsOut != "" {
		if err := writeCharts(ctx, repo, *chartsOut); err != nil {
			log.Fatalf("write charts: %v", err)
		}
		log.Printf("charts written to %s", *chartsOut)
	}
}

func writeCharts(ctx context.Context, repo *movie.Repo, path string) error {
	rows, err := repo.All(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return viz.RenderDashboard(f, rows)
}

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
