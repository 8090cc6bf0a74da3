package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"moviehub/internal/analyze"
	"moviehub/internal/clean"
	"moviehub/internal/events"
	"moviehub/internal/movie"
	"moviehub/internal/tmdb"
)

// Fetcher is implemented by the TMDB client and by test doubles.
type Fetcher interface {
	FetchMovie(ctx context.Context, id int64) (*tmdb.Movie, error)
}

// Notifier receives the final run summary. The UDP notify server
// implements it; a nil Notifier disables the hook.
type Notifier interface {
	BroadcastRunFinished(runID string, fetched, skipped, saved int)
}

// Runner drives one extraction run: fetch raw payloads per ID, clean,
// annotate, and upsert into the movies table. Per-ID failures are
// logged and skipped so one bad ID never aborts the run.
type Runner struct {
	Fetcher  Fetcher
	Repo     *movie.Repo
	Hub      *events.Hub
	Notifier Notifier

	// Delay between consecutive TMDB requests.
	Delay time.Duration

	// RawDir, when non-empty, receives one raw JSON file per fetched
	// movie, named <run_id>/<movie_id>.json.
	RawDir string
}

// Result summarizes a finished run.
type Result struct {
	RunID   string
	Fetched int
	Skipped int
	Saved   int
}

// Run executes the pipeline over the given movie IDs.
func (r *Runner) Run(ctx context.Context, ids []int64) (Result, error) {
	res := Result{RunID: uuid.NewString()}

	log.Printf("[pipeline] run %s started: %d ids", res.RunID, len(ids))
	r.broadcast(events.RunEvent{
		Type:  events.TypeRunStarted,
		RunID: res.RunID,
		At:    time.Now().UTC(),
	})

	raw := make([]tmdb.Movie, 0, len(ids))
	for i, id := range ids {
		if i > 0 && r.Delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(r.Delay):
			}
		}

		m, err := r.Fetcher.FetchMovie(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return res, err
			}
			reason := "fetch failed"
			if errors.Is(err, tmdb.ErrNotFound) {
				reason = "not found"
			}
			log.Printf("[pipeline] skip movie %d: %v", id, err)
			res.Skipped++
			r.broadcast(events.RunEvent{
				Type:    events.TypeMovieSkipped,
				RunID:   res.RunID,
				MovieID: id,
				Reason:  reason,
				At:      time.Now().UTC(),
			})
			continue
		}

		if r.RawDir != "" {
			if err := r.dumpRaw(res.RunID, id, m); err != nil {
				log.Printf("[pipeline] raw dump for movie %d: %v", id, err)
			}
		}

		raw = append(raw, *m)
		res.Fetched++
		r.broadcast(events.RunEvent{
			Type:    events.TypeMovieFetched,
			RunID:   res.RunID,
			MovieID: id,
			Title:   m.Title,
			At:      time.Now().UTC(),
		})
	}

	rows := analyze.Annotate(clean.Run(raw))
	if len(rows) > 0 {
		if err := r.Repo.Upsert(ctx, rows); err != nil {
			return res, fmt.Errorf("persist run %s: %w", res.RunID, err)
		}
	}
	res.Saved = len(rows)

	log.Printf("[pipeline] run %s finished: fetched=%d skipped=%d saved=%d",
		res.RunID, res.Fetched, res.Skipped, res.Saved)
	r.broadcast(events.RunEvent{
		Type:    events.TypeRunFinished,
		RunID:   res.RunID,
		Fetched: res.Fetched,
		Skipped: res.Skipped,
		Saved:   res.Saved,
		At:      time.Now().UTC(),
	})
	if r.Notifier != nil {
		r.Notifier.BroadcastRunFinished(res.RunID, res.Fetched, res.Skipped, res.Saved)
	}

	return res, nil
}

func (r *Runner) broadcast(ev events.RunEvent) {
	if r.Hub != nil {
		r.Hub.Publish(ev)
	}
}

func (r *Runner) dumpRaw(runID string, id int64, m *tmdb.Movie) error {
	dir := filepath.Join(r.RawDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.json", id)), data, 0o644)
}
