// Package analyze derives financial KPIs from clean rows and provides
// ranking and aggregation helpers. Nothing here mutates its input.
package analyze

import (
	"fmt"
	"sort"
	"strings"

	"moviehub/pkg/models"
)

// Annotate returns a copy of rows with profit_musd and roi filled in.
// Profit needs both budget and revenue; ROI additionally needs a
// positive budget. A zero or unknown budget leaves ROI nil rather
// than producing Inf.
func Annotate(rows []models.Movie) []models.Movie {
	out := make([]models.Movie, len(rows))
	copy(out, rows)

	for i := range out {
		budget := out[i].BudgetMUSD
		revenue := out[i].RevenueMUSD
		if budget == nil || revenue == nil {
			continue
		}

		profit := *revenue - *budget
		out[i].ProfitMUSD = &profit

		if *budget > 0 {
			roi := *revenue / *budget
			out[i].ROI = &roi
		}
	}

	return out
}

// MetricNames lists the columns TopN can rank by.
var MetricNames = []string{
	"budget_musd", "revenue_musd", "profit_musd", "roi",
	"popularity", "vote_average", "vote_count", "runtime",
}

func metricValue(m models.Movie, metric string) (float64, bool) {
	switch metric {
	case "budget_musd":
		if m.BudgetMUSD != nil {
			return *m.BudgetMUSD, true
		}
	case "revenue_musd":
		if m.RevenueMUSD != nil {
			return *m.RevenueMUSD, true
		}
	case "profit_musd":
		if m.ProfitMUSD != nil {
			return *m.ProfitMUSD, true
		}
	case "roi":
		if m.ROI != nil {
			return *m.ROI, true
		}
	case "popularity":
		return m.Popularity, true
	case "vote_average":
		if m.VoteAverage != nil {
			return *m.VoteAverage, true
		}
	case "vote_count":
		return float64(m.VoteCount), true
	case "runtime":
		if m.Runtime != nil {
			return float64(*m.Runtime), true
		}
	}
	return 0, false
}

// TopN returns the n rows with the highest value of the named metric,
// sorted descending. Rows where the metric is unknown are excluded, so
// the result length is min(n, rows with that metric).
func TopN(rows []models.Movie, metric string, n int) ([]models.Movie, error) {
	if !validMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q (one of: %s)", metric, strings.Join(MetricNames, ", "))
	}
	if n <= 0 {
		return []models.Movie{}, nil
	}

	ranked := make([]models.Movie, 0, len(rows))
	for _, m := range rows {
		if _, ok := metricValue(m, metric); ok {
			ranked = append(ranked, m)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, _ := metricValue(ranked[i], metric)
		b, _ := metricValue(ranked[j], metric)
		return a > b
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func validMetric(metric string) bool {
	for _, name := range MetricNames {
		if name == metric {
			return true
		}
	}
	return false
}

// GroupMetrics are the aggregates reported for a group of movies.
type GroupMetrics struct {
	Movies         int     `json:"movies"`
	MeanRevenue    float64 `json:"mean_revenue_musd"`
	MeanBudget     float64 `json:"mean_budget_musd"`
	MedianROI      float64 `json:"median_roi"`
	MeanPopularity float64 `json:"mean_popularity"`
	MeanRating     float64 `json:"mean_rating"`
}

// Comparison contrasts franchise movies against standalone ones.
type Comparison struct {
	Franchise  GroupMetrics `json:"franchise"`
	Standalone GroupMetrics `json:"standalone"`
}

// CompareFranchise splits rows by franchise membership and aggregates
// both groups.
func CompareFranchise(rows []models.Movie) Comparison {
	var franchise, standalone []models.Movie
	for _, m := range rows {
		if m.IsFranchise() {
			franchise = append(franchise, m)
		} else {
			standalone = append(standalone, m)
		}
	}
	return Comparison{
		Franchise:  groupMetrics(franchise),
		Standalone: groupMetrics(standalone),
	}
}

func groupMetrics(rows []models.Movie) GroupMetrics {
	gm := GroupMetrics{Movies: len(rows)}
	if len(rows) == 0 {
		return gm
	}

	var rois []float64
	var popSum float64
	revSum, revN := 0.0, 0
	budSum, budN := 0.0, 0
	rateSum, rateN := 0.0, 0

	for _, m := range rows {
		popSum += m.Popularity
		if m.RevenueMUSD != nil {
			revSum += *m.RevenueMUSD
			revN++
		}
		if m.BudgetMUSD != nil {
			budSum += *m.BudgetMUSD
			budN++
		}
		if m.VoteAverage != nil {
			rateSum += *m.VoteAverage
			rateN++
		}
		if m.ROI != nil {
			rois = append(rois, *m.ROI)
		}
	}

	gm.MeanPopularity = popSum / float64(len(rows))
	if revN > 0 {
		gm.MeanRevenue = revSum / float64(revN)
	}
	if budN > 0 {
		gm.MeanBudget = budSum / float64(budN)
	}
	if rateN > 0 {
		gm.MeanRating = rateSum / float64(rateN)
	}
	gm.MedianROI = median(rois)
	return gm
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// FranchiseStat aggregates one collection.
type FranchiseStat struct {
	Collection   string  `json:"collection"`
	Movies       int     `json:"movies"`
	TotalBudget  float64 `json:"total_budget_musd"`
	MeanBudget   float64 `json:"mean_budget_musd"`
	TotalRevenue float64 `json:"total_revenue_musd"`
	MeanRevenue  float64 `json:"mean_revenue_musd"`
	MeanRating   float64 `json:"mean_rating"`
}

// TopFranchises groups franchise movies by collection and ranks the
// collections by total revenue, descending.
func TopFranchises(rows []models.Movie) []FranchiseStat {
	groups := make(map[string][]models.Movie)
	for _, m := range rows {
		if m.IsFranchise() {
			groups[m.CollectionName] = append(groups[m.CollectionName], m)
		}
	}

	stats := make([]FranchiseStat, 0, len(groups))
	for name, group := range groups {
		st := FranchiseStat{Collection: name, Movies: len(group)}
		budN, revN, rateN := 0, 0, 0
		for _, m := range group {
			if m.BudgetMUSD != nil {
				st.TotalBudget += *m.BudgetMUSD
				budN++
			}
			if m.RevenueMUSD != nil {
				st.TotalRevenue += *m.RevenueMUSD
				revN++
			}
			if m.VoteAverage != nil {
				st.MeanRating += *m.VoteAverage
				rateN++
			}
		}
		if budN > 0 {
			st.MeanBudget = st.TotalBudget / float64(budN)
		}
		if revN > 0 {
			st.MeanRevenue = st.TotalRevenue / float64(revN)
		}
		if rateN > 0 {
			st.MeanRating = st.MeanRating / float64(rateN)
		}
		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalRevenue != stats[j].TotalRevenue {
			return stats[i].TotalRevenue > stats[j].TotalRevenue
		}
		return stats[i].Collection < stats[j].Collection
	})
	return stats
}

// DirectorStat aggregates one director.
type DirectorStat struct {
	Director     string  `json:"director"`
	Movies       int     `json:"movies"`
	TotalRevenue float64 `json:"total_revenue_musd"`
	MeanRating   float64 `json:"mean_rating"`
}

// TopDirectors groups rows by director (excluding "Unknown") and ranks
// them by total revenue, descending. Directors with fewer than
// minMovies entries are excluded.
func TopDirectors(rows []models.Movie, minMovies int) []DirectorStat {
	if minMovies < 1 {
		minMovies = 1
	}

	groups := make(map[string][]models.Movie)
	for _, m := range rows {
		if m.Director != "" && m.Director != "Unknown" {
			groups[m.Director] = append(groups[m.Director], m)
		}
	}

	stats := make([]DirectorStat, 0, len(groups))
	for name, group := range groups {
		if len(group) < minMovies {
			continue
		}
		st := DirectorStat{Director: name, Movies: len(group)}
		rateN := 0
		for _, m := range group {
			if m.RevenueMUSD != nil {
				st.TotalRevenue += *m.RevenueMUSD
			}
			if m.VoteAverage != nil {
				st.MeanRating += *m.VoteAverage
				rateN++
			}
		}
		if rateN > 0 {
			st.MeanRating = st.MeanRating / float64(rateN)
		}
		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalRevenue != stats[j].TotalRevenue {
			return stats[i].TotalRevenue > stats[j].TotalRevenue
		}
		return stats[i].Director < stats[j].Director
	})
	return stats
}
