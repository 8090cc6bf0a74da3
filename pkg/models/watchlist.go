package models

import "time"

type WatchlistItem struct {
	UserID    string    `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Status    string    `json:"status"` // "planned", "watched", "favorite"
	UpdatedAt time.Time `json:"updated_at"`
}
