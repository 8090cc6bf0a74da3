package events

import "time"

// Event types emitted while a pipeline run progresses. Consumers see a
// line-JSON stream over TCP or WebSocket.
const (
	TypeRunStarted   = "run.started"
	TypeMovieFetched = "movie.fetched"
	TypeMovieSkipped = "movie.skipped"
	TypeRunFinished  = "run.finished"
)

type RunEvent struct {
	Type    string    `json:"type"`
	RunID   string    `json:"run_id"`
	MovieID int64     `json:"movie_id,omitempty"`
	Title   string    `json:"title,omitempty"`
	Reason  string    `json:"reason,omitempty"` // movie.skipped only
	Fetched int       `json:"fetched,omitempty"`
	Skipped int       `json:"skipped,omitempty"`
	Saved   int       `json:"saved,omitempty"` // run.finished only
	At      time.Time `json:"at"`
}

type WatchlistEvent struct {
	Type    string    `json:"type"` // "watchlist.update" or "watchlist.delete"
	UserID  string    `json:"user_id"`
	MovieID int64     `json:"movie_id"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}
