package viz

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"moviehub/pkg/models"
)

const (
	// Per-movie budget floor for the ROI-by-genre chart.
	minGenreBudgetMUSD = 10.0
	maxGenreBars       = 6
	minVotesForRating  = 10
)

// RevenueBudgetScatter plots revenue against budget, split into
// franchise and standalone series. Rows missing either figure are
// omitted.
func RevenueBudgetScatter(rows []models.Movie) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Revenue vs Budget"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Budget (MUSD)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Revenue (MUSD)", Type: "value"}),
	)

	var franchise, standalone []opts.ScatterData
	for _, m := range rows {
		if m.BudgetMUSD == nil || m.RevenueMUSD == nil {
			continue
		}
		point := opts.ScatterData{
			Name:  m.Title,
			Value: []interface{}{*m.BudgetMUSD, *m.RevenueMUSD},
		}
		if m.IsFranchise() {
			franchise = append(franchise, point)
		} else {
			standalone = append(standalone, point)
		}
	}

	sc.AddSeries("Franchise", franchise)
	sc.AddSeries("Standalone", standalone)
	return sc
}

// ROIByGenreBar shows mean ROI per primary genre for movies with a
// budget of at least 10 MUSD, limited to the most common genres.
func ROIByGenreBar(rows []models.Movie) *charts.Bar {
	type acc struct {
		sum   float64
		count int
	}
	byGenre := make(map[string]*acc)
	for _, m := range rows {
		if m.ROI == nil || m.BudgetMUSD == nil || *m.BudgetMUSD < minGenreBudgetMUSD {
			continue
		}
		genre := m.PrimaryGenre()
		if genre == "" {
			continue
		}
		a := byGenre[genre]
		if a == nil {
			a = &acc{}
			byGenre[genre] = a
		}
		a.sum += *m.ROI
		a.count++
	}

	genres := make([]string, 0, len(byGenre))
	for g := range byGenre {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if byGenre[genres[i]].count != byGenre[genres[j]].count {
			return byGenre[genres[i]].count > byGenre[genres[j]].count
		}
		return genres[i] < genres[j]
	})
	if len(genres) > maxGenreBars {
		genres = genres[:maxGenreBars]
	}

	values := make([]opts.BarData, 0, len(genres))
	for _, g := range genres {
		a := byGenre[g]
		values = append(values, opts.BarData{Value: round2(a.sum / float64(a.count))})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean ROI by Genre (budget ≥ 10 MUSD)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Mean ROI"}),
	)
	bar.SetXAxis(genres).AddSeries("Mean ROI", values)
	return bar
}

// PopularityRatingScatter plots popularity against vote average for
// movies with enough votes to make the rating meaningful.
func PopularityRatingScatter(rows []models.Movie) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Popularity vs Rating"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Vote Average", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Popularity", Type: "value"}),
	)

	var points []opts.ScatterData
	for _, m := range rows {
		if m.VoteAverage == nil || m.VoteCount < minVotesForRating {
			continue
		}
		points = append(points, opts.ScatterData{
			Name:  m.Title,
			Value: []interface{}{*m.VoteAverage, m.Popularity},
		})
	}
	sc.AddSeries("Movies", points)
	return sc
}

// YearlyTrendsLine shows release count and total revenue per year.
func YearlyTrendsLine(rows []models.Movie) *charts.Line {
	type yearAcc struct {
		count   int
		revenue float64
	}
	byYear := make(map[int]*yearAcc)
	for _, m := range rows {
		year := m.ReleaseYear()
		if year == 0 {
			continue
		}
		a := byYear[year]
		if a == nil {
			a = &yearAcc{}
			byYear[year] = a
		}
		a.count++
		if m.RevenueMUSD != nil {
			a.revenue += *m.RevenueMUSD
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	labels := make([]string, 0, len(years))
	counts := make([]opts.LineData, 0, len(years))
	revenues := make([]opts.LineData, 0, len(years))
	for _, y := range years {
		labels = append(labels, fmt.Sprintf("%d", y))
		counts = append(counts, opts.LineData{Value: byYear[y].count})
		revenues = append(revenues, opts.LineData{Value: round2(byYear[y].revenue)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Releases and Revenue by Year"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
	)
	line.SetXAxis(labels).
		AddSeries("Releases", counts).
		AddSeries("Total Revenue (MUSD)", revenues)
	return line
}

// RenderDashboard writes a single HTML page containing all charts.
func RenderDashboard(w io.Writer, rows []models.Movie) error {
	page := components.NewPage()
	page.PageTitle = "MovieHub Dashboard"
	page.AddCharts(
		RevenueBudgetScatter(rows),
		ROIByGenreBar(rows),
		PopularityRatingScatter(rows),
		YearlyTrendsLine(rows),
	)
	return page.Render(w)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
