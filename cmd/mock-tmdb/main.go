package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"moviehub/internal/tmdb"
)

// Serves a local TMDB lookalike for offline pipeline runs:
//
//	GET /movie/{id}?append_to_response=credits
//
// backed by a JSON array of raw movie payloads. Point the pipeline at it
// with MOVIEHUB_TMDB_BASE_URL=http://localhost:9000.
func main() {
	var (
		addr     = flag.String("addr", ":9000", "listen address")
		dataPath = flag.String("data", "data/mock_movies.json", "JSON array of raw TMDB movie payloads")
	)
	flag.Parse()

	movies, err := loadMovies(*dataPath)
	if err != nil {
		log.Fatalf("load %s: %v", *dataPath, err)
	}
	log.Printf("loaded %d mock movies from %s", len(movies), *dataPath)

	http.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		idRaw := strings.TrimPrefix(r.URL.Path, "/movie/")
		id, err := strconv.ParseInt(idRaw, 10, 64)
		if err != nil {
			writeStatus(w, http.StatusBadRequest, 5, "Invalid id: The pre-requisite id is invalid or not found.")
			return
		}

		m, ok := movies[id]
		if !ok {
			writeStatus(w, http.StatusNotFound, 34, "The resource you requested could not be found.")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(m)
	})

	log.Printf("mock-tmdb listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func loadMovies(path string) (map[int64]tmdb.Movie, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []tmdb.Movie
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	byID := make(map[int64]tmdb.Movie, len(list))
	for _, m := range list {
		byID[m.ID] = m
	}
	return byID, nil
}

// writeStatus mirrors TMDB's error envelope.
func writeStatus(w http.ResponseWriter, httpCode, statusCode int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status_code":    statusCode,
		"status_message": msg,
		"success":        false,
	})
}
