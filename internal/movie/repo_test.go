package movie

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"moviehub/pkg/database"
	"moviehub/pkg/models"
)

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func seed(t *testing.T, repo *Repo) {
	t.Helper()
	err := repo.Upsert(context.Background(), []models.Movie{
		{
			ID: 19995, Title: "Avatar", ReleaseDate: "2009-12-15",
			Genres: "Action|Adventure|Fantasy|Science Fiction",
			CollectionName: "Avatar Collection", Director: "James Cameron",
			Cast:       "Sam Worthington|Zoe Saldana",
			BudgetMUSD: f(237), RevenueMUSD: f(2787.965087),
			ProfitMUSD: f(2550.965087), ROI: f(11.76),
			VoteCount: 12114, VoteAverage: f(7.2), Popularity: 185.07, Runtime: i(162),
		},
		{
			ID: 597, Title: "Titanic", ReleaseDate: "1997-11-18",
			Genres: "Drama|Romance", Director: "James Cameron",
			Cast:       "Leonardo DiCaprio|Kate Winslet",
			BudgetMUSD: f(200), RevenueMUSD: f(1845.034188),
			ProfitMUSD: f(1645.034188), ROI: f(9.23),
			VoteCount: 14655, VoteAverage: f(7.8), Popularity: 89.89, Runtime: i(194),
		},
		{
			ID: 111, Title: "Obscure Documentary",
			Genres: "Documentary", Director: "Unknown",
			VoteCount: 3, Popularity: 0.8,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	m, err := repo.GetByID(context.Background(), 19995)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("movie not found")
	}
	if m.Title != "Avatar" || m.CollectionName != "Avatar Collection" {
		t.Errorf("movie = %+v", m)
	}
	if m.BudgetMUSD == nil || *m.BudgetMUSD != 237 {
		t.Errorf("budget = %v", m.BudgetMUSD)
	}
	if m.Runtime == nil || *m.Runtime != 162 {
		t.Errorf("runtime = %v", m.Runtime)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	err := repo.Upsert(context.Background(), []models.Movie{
		{ID: 597, Title: "Titanic (Remastered)", VoteCount: 15000, Popularity: 90},
	})
	if err != nil {
		t.Fatal(err)
	}

	m, err := repo.GetByID(context.Background(), 597)
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "Titanic (Remastered)" {
		t.Errorf("title = %q", m.Title)
	}
	// the replacement row had no budget, so the column must be nulled
	if m.BudgetMUSD != nil {
		t.Errorf("budget = %v, want nil", *m.BudgetMUSD)
	}
}

func TestNullColumnsRoundTrip(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	m, err := repo.GetByID(context.Background(), 111)
	if err != nil {
		t.Fatal(err)
	}
	if m.BudgetMUSD != nil || m.RevenueMUSD != nil || m.VoteAverage != nil || m.Runtime != nil {
		t.Errorf("expected nil numerics, got %+v", m)
	}
	if m.ProfitMUSD != nil || m.ROI != nil {
		t.Errorf("expected nil derived columns, got %+v", m)
	}
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewRepo(testDB(t))
	m, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Errorf("m = %+v, want nil", m)
	}
}

func TestListKeywordMatchesTitleAndDirector(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	items, err := repo.List(context.Background(), ListQuery{Q: "cameron"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	// default order is title ascending
	if items[0].Title != "Avatar" || items[1].Title != "Titanic" {
		t.Errorf("order = %q, %q", items[0].Title, items[1].Title)
	}
}

func TestListGenresAllMatch(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	items, err := repo.List(context.Background(), ListQuery{Genres: []string{"Drama", "Romance"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 597 {
		t.Errorf("items = %+v", items)
	}
}

func TestListOrderByMetricPutsNullsLast(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	items, err := repo.List(context.Background(), ListQuery{OrderBy: "revenue_musd"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].ID != 19995 || items[1].ID != 597 {
		t.Errorf("order = %d, %d", items[0].ID, items[1].ID)
	}
	if items[2].ID != 111 {
		t.Errorf("null-revenue row not last: %d", items[2].ID)
	}
}

func TestListBudgetBounds(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	items, err := repo.List(context.Background(), ListQuery{MinBudget: f(210)})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 19995 {
		t.Errorf("items = %+v", items)
	}
}

func TestCountMatchesList(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	q := ListQuery{Q: "cameron"}
	total, err := repo.Count(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestAllReturnsIDOrder(t *testing.T) {
	repo := NewRepo(testDB(t))
	seed(t, repo)

	rows, err := repo.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	if rows[0].ID != 111 || rows[1].ID != 597 || rows[2].ID != 19995 {
		t.Errorf("order = %d, %d, %d", rows[0].ID, rows[1].ID, rows[2].ID)
	}
}
