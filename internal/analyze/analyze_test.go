package analyze

import (
	"math"
	"testing"

	"moviehub/pkg/models"
)

func f(v float64) *float64 { return &v }

func TestAnnotateProfitAndROI(t *testing.T) {
	rows := Annotate([]models.Movie{
		{ID: 603, Title: "The Matrix", BudgetMUSD: f(63.0), RevenueMUSD: f(463.517383)},
	})
	m := rows[0]

	if m.ProfitMUSD == nil {
		t.Fatal("profit_musd is nil")
	}
	if got := *m.ProfitMUSD; math.Abs(got-400.517383) > 1e-9 {
		t.Errorf("profit_musd = %v, want 400.517383", got)
	}

	if m.ROI == nil {
		t.Fatal("roi is nil")
	}
	if got := *m.ROI; math.Abs(got-463.517383/63.0) > 1e-9 {
		t.Errorf("roi = %v, want %v", got, 463.517383/63.0)
	}
}

func TestAnnotateZeroBudgetLeavesROINil(t *testing.T) {
	// a freely distributed movie still has profit but no meaningful ROI
	zero := 0.0
	rows := Annotate([]models.Movie{
		{ID: 1, BudgetMUSD: &zero, RevenueMUSD: f(10)},
	})
	m := rows[0]
	if m.ProfitMUSD == nil || *m.ProfitMUSD != 10 {
		t.Errorf("profit_musd = %v, want 10", m.ProfitMUSD)
	}
	if m.ROI != nil {
		t.Errorf("roi = %v, want nil for zero budget", *m.ROI)
	}
}

func TestAnnotateMissingFiguresLeaveBothNil(t *testing.T) {
	rows := Annotate([]models.Movie{
		{ID: 1, RevenueMUSD: f(10)},
		{ID: 2, BudgetMUSD: f(5)},
		{ID: 3},
	})
	for _, m := range rows {
		if m.ProfitMUSD != nil || m.ROI != nil {
			t.Errorf("movie %d: profit=%v roi=%v, want both nil", m.ID, m.ProfitMUSD, m.ROI)
		}
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	in := []models.Movie{{ID: 1, BudgetMUSD: f(5), RevenueMUSD: f(10)}}
	_ = Annotate(in)
	if in[0].ProfitMUSD != nil || in[0].ROI != nil {
		t.Error("Annotate mutated its input")
	}
}

func TestTopNOrdersDescending(t *testing.T) {
	rows := []models.Movie{
		{ID: 1, Title: "Low", RevenueMUSD: f(10)},
		{ID: 2, Title: "High", RevenueMUSD: f(100)},
		{ID: 3, Title: "Mid", RevenueMUSD: f(50)},
		{ID: 4, Title: "NoRevenue"},
	}

	top, err := TopN(rows, "revenue_musd", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Title != "High" || top[1].Title != "Mid" {
		t.Errorf("order = %q, %q", top[0].Title, top[1].Title)
	}
}

func TestTopNExcludesRowsMissingMetric(t *testing.T) {
	rows := []models.Movie{
		{ID: 1, ROI: f(2)},
		{ID: 2}, // no roi
	}
	top, err := TopN(rows, "roi", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].ID != 1 {
		t.Errorf("top = %+v", top)
	}
}

func TestTopNUnknownMetric(t *testing.T) {
	if _, err := TopN(nil, "box_office", 5); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestTopNZeroN(t *testing.T) {
	top, err := TopN([]models.Movie{{ID: 1, Popularity: 5}}, "popularity", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 0 {
		t.Errorf("len = %d, want 0", len(top))
	}
}

func TestCompareFranchiseSplitsGroups(t *testing.T) {
	rows := []models.Movie{
		{ID: 1, CollectionName: "Saga", RevenueMUSD: f(100), BudgetMUSD: f(50), ROI: f(2), Popularity: 10, VoteAverage: f(7)},
		{ID: 2, CollectionName: "Saga", RevenueMUSD: f(200), BudgetMUSD: f(50), ROI: f(4), Popularity: 20, VoteAverage: f(8)},
		{ID: 3, RevenueMUSD: f(30), BudgetMUSD: f(10), ROI: f(3), Popularity: 5, VoteAverage: f(6)},
	}

	cmp := CompareFranchise(rows)
	if cmp.Franchise.Movies != 2 || cmp.Standalone.Movies != 1 {
		t.Fatalf("split = %d/%d", cmp.Franchise.Movies, cmp.Standalone.Movies)
	}
	if cmp.Franchise.MeanRevenue != 150 {
		t.Errorf("franchise mean revenue = %v", cmp.Franchise.MeanRevenue)
	}
	if cmp.Franchise.MedianROI != 3 {
		t.Errorf("franchise median roi = %v", cmp.Franchise.MedianROI)
	}
	if cmp.Standalone.MeanBudget != 10 {
		t.Errorf("standalone mean budget = %v", cmp.Standalone.MeanBudget)
	}
}

func TestTopFranchisesRankedByTotalRevenue(t *testing.T) {
	rows := []models.Movie{
		{ID: 1, CollectionName: "Small", RevenueMUSD: f(10)},
		{ID: 2, CollectionName: "Big", RevenueMUSD: f(100)},
		{ID: 3, CollectionName: "Big", RevenueMUSD: f(200)},
		{ID: 4}, // standalone, excluded
	}

	stats := TopFranchises(rows)
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	if stats[0].Collection != "Big" || stats[0].TotalRevenue != 300 || stats[0].Movies != 2 {
		t.Errorf("first = %+v", stats[0])
	}
	if stats[1].Collection != "Small" {
		t.Errorf("second = %+v", stats[1])
	}
}

func TestTopDirectorsMinMoviesFilter(t *testing.T) {
	rows := []models.Movie{
		{ID: 1, Director: "Prolific", RevenueMUSD: f(50), VoteAverage: f(7)},
		{ID: 2, Director: "Prolific", RevenueMUSD: f(70), VoteAverage: f(8)},
		{ID: 3, Director: "OneHit", RevenueMUSD: f(500)},
		{ID: 4, Director: "Unknown", RevenueMUSD: f(999)},
	}

	stats := TopDirectors(rows, 2)
	if len(stats) != 1 {
		t.Fatalf("len = %d, want 1", len(stats))
	}
	if stats[0].Director != "Prolific" || stats[0].TotalRevenue != 120 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[0].MeanRating != 7.5 {
		t.Errorf("mean rating = %v, want 7.5", stats[0].MeanRating)
	}
}

func TestMedianEvenCount(t *testing.T) {
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
	if got := median(nil); got != 0 {
		t.Errorf("median(nil) = %v, want 0", got)
	}
}
