// Package query filters annotated rows with column/value predicates.
// All predicates are combined with AND; an empty Filter matches
// everything. Apply is pure and never reorders rows, so applying the
// same filter twice yields the same subset and chained filters commute.
package query

import (
	"strings"

	"moviehub/pkg/models"
)

// Filter holds per-column predicates. String predicates are
// case-insensitive substring matches; slice predicates require every
// entry to match; numeric bounds are inclusive.
type Filter struct {
	Title      string
	Director   string
	Collection string
	Genres     []string // all must appear in the genre list
	Cast       []string // all must appear in the cast list

	MinBudgetMUSD  *float64
	MaxBudgetMUSD  *float64
	MinRevenueMUSD *float64
	MinROI         *float64
	MinVotes       int64
	FranchiseOnly  bool
}

// Match reports whether m satisfies every predicate of f.
func (f Filter) Match(m models.Movie) bool {
	if !contains(m.Title, f.Title) {
		return false
	}
	if !contains(m.Director, f.Director) {
		return false
	}
	if !contains(m.CollectionName, f.Collection) {
		return false
	}
	for _, g := range f.Genres {
		if !contains(m.Genres, g) {
			return false
		}
	}
	for _, c := range f.Cast {
		if !contains(m.Cast, c) {
			return false
		}
	}

	if f.MinBudgetMUSD != nil && (m.BudgetMUSD == nil || *m.BudgetMUSD < *f.MinBudgetMUSD) {
		return false
	}
	if f.MaxBudgetMUSD != nil && (m.BudgetMUSD == nil || *m.BudgetMUSD > *f.MaxBudgetMUSD) {
		return false
	}
	if f.MinRevenueMUSD != nil && (m.RevenueMUSD == nil || *m.RevenueMUSD < *f.MinRevenueMUSD) {
		return false
	}
	if f.MinROI != nil && (m.ROI == nil || *m.ROI < *f.MinROI) {
		return false
	}
	if f.MinVotes > 0 && m.VoteCount < f.MinVotes {
		return false
	}
	if f.FranchiseOnly && !m.IsFranchise() {
		return false
	}
	return true
}

// Apply returns the rows matching f, in input order.
func Apply(rows []models.Movie, f Filter) []models.Movie {
	out := make([]models.Movie, 0, len(rows))
	for _, m := range rows {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// contains is a case-insensitive substring test; an empty needle
// matches anything.
func contains(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
