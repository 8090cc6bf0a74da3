// Package clean turns raw API payloads into the fixed tabular schema.
// Run is a pure function: same input, same output, no I/O.
package clean

import (
	"strings"
	"time"

	"moviehub/internal/tmdb"
	"moviehub/pkg/models"
)

// scaleMUSD converts USD amounts to millions of USD.
const scaleMUSD = 1_000_000

// maxCast is how many cast members survive flattening (API order).
const maxCast = 5

// minPopulated is the minimum number of populated columns a row needs
// to be kept.
const minPopulated = 10

// Run normalizes raw movies into clean rows. Rules, in order:
//
//  1. flatten nested list fields (genres, languages, countries,
//     companies, cast, crew) into scalar columns
//  2. treat zero budget/revenue/runtime as unknown
//  3. null the rating when there are no votes
//  4. scale monetary columns to millions
//  5. drop rows without id or title, duplicate ids (first wins),
//     movies not yet released, and rows with too few populated columns
func Run(raw []tmdb.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))

	for _, r := range raw {
		if r.ID == 0 || strings.TrimSpace(r.Title) == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		if r.Status != "Released" {
			continue
		}

		m := normalize(r)
		if populatedColumns(m) < minPopulated {
			continue
		}

		seen[r.ID] = struct{}{}
		out = append(out, m)
	}

	return out
}

func normalize(r tmdb.Movie) models.Movie {
	m := models.Movie{
		ID:                  r.ID,
		Title:               strings.TrimSpace(r.Title),
		Tagline:             cleanText(r.Tagline, "No tagline."),
		ReleaseDate:         parseDate(r.ReleaseDate),
		Genres:              joinNames(r.Genres),
		OriginalLanguage:    r.OriginalLanguage,
		ProductionCompanies: joinNames(r.ProductionCompanies),
		ProductionCountries: joinNames(r.ProductionCountries),
		SpokenLanguages:     joinNames(r.SpokenLanguages),
		VoteCount:           r.VoteCount,
		Popularity:          r.Popularity,
		Overview:            cleanText(r.Overview, "No overview found.", "No Overview"),
		PosterPath:          r.PosterPath,
		Cast:                topCast(r.Credits.Cast, maxCast),
		CastSize:            len(r.Credits.Cast),
		Director:            director(r.Credits.Crew),
		CrewSize:            len(r.Credits.Crew),
	}

	if r.BelongsToCollection != nil {
		m.CollectionName = strings.TrimSpace(r.BelongsToCollection.Name)
	}

	// zero is the API's "unknown" sentinel for these
	if r.Budget > 0 {
		v := float64(r.Budget) / scaleMUSD
		m.BudgetMUSD = &v
	}
	if r.Revenue > 0 {
		v := float64(r.Revenue) / scaleMUSD
		m.RevenueMUSD = &v
	}
	if r.Runtime > 0 {
		v := r.Runtime
		m.Runtime = &v
	}

	// a rating with no votes is noise
	if r.VoteCount > 0 {
		v := r.VoteAverage
		m.VoteAverage = &v
	}

	return m
}

// joinNames pipe-joins the name fields of a nested list, skipping blanks.
func joinNames(refs []tmdb.NamedRef) string {
	if len(refs) == 0 {
		return ""
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if name := strings.TrimSpace(ref.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// topCast pipe-joins the first n cast member names in API order.
func topCast(cast []tmdb.CastMember, n int) string {
	if len(cast) > n {
		cast = cast[:n]
	}
	names := make([]string, 0, len(cast))
	for _, c := range cast {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// director returns the first crew member whose job is "Director".
func director(crew []tmdb.CrewMember) string {
	for _, c := range crew {
		if c.Job == "Director" && strings.TrimSpace(c.Name) != "" {
			return strings.TrimSpace(c.Name)
		}
	}
	return "Unknown"
}

// cleanText trims s and maps known placeholder strings to "".
func cleanText(s string, placeholders ...string) string {
	s = strings.TrimSpace(s)
	for _, p := range placeholders {
		if s == p {
			return ""
		}
	}
	return s
}

// parseDate keeps only well-formed YYYY-MM-DD dates.
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// populatedColumns counts non-null columns of the clean schema.
// Pointer numerics count when non-nil, strings when non-empty;
// id, title, vote_count, popularity, cast_size and crew_size are always
// present in the payload and always count.
func populatedColumns(m models.Movie) int {
	n := 6 // id, title, vote_count, popularity, cast_size, crew_size

	for _, s := range []string{
		m.Tagline, m.ReleaseDate, m.Genres, m.CollectionName,
		m.OriginalLanguage, m.ProductionCompanies, m.ProductionCountries,
		m.Overview, m.SpokenLanguages, m.PosterPath, m.Cast,
	} {
		if s != "" {
			n++
		}
	}
	if m.Director != "" && m.Director != "Unknown" {
		n++
	}
	if m.BudgetMUSD != nil {
		n++
	}
	if m.RevenueMUSD != nil {
		n++
	}
	if m.Runtime != nil {
		n++
	}
	if m.VoteAverage != nil {
		n++
	}
	return n
}
