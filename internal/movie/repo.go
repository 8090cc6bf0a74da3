package movie

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"moviehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q          string   // keyword search in title/director
	Genres     []string // all-match against the pipe-joined genre list
	CastMember string
	Collection string
	MinBudget  *float64 // MUSD
	MaxBudget  *float64 // MUSD
	OrderBy    string   // metric column; default title
	Limit      int
	Offset     int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const movieColumns = `
	id, title, tagline, release_date, genres, collection_name,
	original_language, budget_musd, revenue_musd,
	production_companies, production_countries,
	vote_count, vote_average, popularity, runtime,
	overview, spoken_languages, poster_path,
	cast_names, cast_size, director, crew_size,
	profit_musd, roi
`

// Upsert writes clean/annotated rows into the movies table, replacing
// existing rows with the same id.
func (r *Repo) Upsert(ctx context.Context, movies []models.Movie) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  tagline = excluded.tagline,
		  release_date = excluded.release_date,
		  genres = excluded.genres,
		  collection_name = excluded.collection_name,
		  original_language = excluded.original_language,
		  budget_musd = excluded.budget_musd,
		  revenue_musd = excluded.revenue_musd,
		  production_companies = excluded.production_companies,
		  production_countries = excluded.production_countries,
		  vote_count = excluded.vote_count,
		  vote_average = excluded.vote_average,
		  popularity = excluded.popularity,
		  runtime = excluded.runtime,
		  overview = excluded.overview,
		  spoken_languages = excluded.spoken_languages,
		  poster_path = excluded.poster_path,
		  cast_names = excluded.cast_names,
		  cast_size = excluded.cast_size,
		  director = excluded.director,
		  crew_size = excluded.crew_size,
		  profit_musd = excluded.profit_musd,
		  roi = excluded.roi
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		if _, err := stmt.ExecContext(ctx,
			m.ID, m.Title, nullStr(m.Tagline), nullStr(m.ReleaseDate),
			nullStr(m.Genres), nullStr(m.CollectionName), nullStr(m.OriginalLanguage),
			nullF64(m.BudgetMUSD), nullF64(m.RevenueMUSD),
			nullStr(m.ProductionCompanies), nullStr(m.ProductionCountries),
			m.VoteCount, nullF64(m.VoteAverage), m.Popularity, nullI64(m.Runtime),
			nullStr(m.Overview), nullStr(m.SpokenLanguages), nullStr(m.PosterPath),
			nullStr(m.Cast), m.CastSize, nullStr(m.Director), m.CrewSize,
			nullF64(m.ProfitMUSD), nullF64(m.ROI),
		); err != nil {
			return fmt.Errorf("exec upsert for %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE id = ?
	`, id)

	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return m, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Movie, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0, q.Limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// All loads the whole table in id order, for the in-memory analyze and
// chart stages. The dataset is a configured ID list, so this stays small.
func (r *Repo) All(ctx context.Context) ([]models.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all query: %w", err)
	}
	defer rows.Close()

	var out []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("all scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// orderColumns maps API sort keys to real columns; anything else falls
// back to title order.
var orderColumns = map[string]string{
	"budget_musd":  "budget_musd",
	"revenue_musd": "revenue_musd",
	"profit_musd":  "profit_musd",
	"roi":          "roi",
	"popularity":   "popularity",
	"vote_average": "vote_average",
	"vote_count":   "vote_count",
	"release_date": "release_date",
}

// buildListSQL builds either COUNT(*) or SELECT list. Every provided
// predicate is ANDed; genre filters are all-match LIKE searches against
// the pipe-joined text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + movieColumns + ` FROM movies`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM movies`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(director) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	for _, g := range q.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		where = append(where, "LOWER(genres) LIKE ?")
		args = append(args, "%"+strings.ToLower(g)+"%")
	}

	if strings.TrimSpace(q.CastMember) != "" {
		where = append(where, "LOWER(cast_names) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.CastMember))+"%")
	}

	if strings.TrimSpace(q.Collection) != "" {
		where = append(where, "LOWER(collection_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Collection))+"%")
	}

	if q.MinBudget != nil {
		where = append(where, "budget_musd >= ?")
		args = append(args, *q.MinBudget)
	}
	if q.MaxBudget != nil {
		where = append(where, "budget_musd <= ?")
		args = append(args, *q.MaxBudget)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		if col, ok := orderColumns[q.OrderBy]; ok {
			// NULL metrics sort last so ranking stays meaningful
			sqlStr += fmt.Sprintf(" ORDER BY %s IS NULL, %s DESC", col, col)
		} else {
			sqlStr += " ORDER BY title ASC"
		}

		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m         models.Movie
		tagline   sql.NullString
		released  sql.NullString
		genres    sql.NullString
		coll      sql.NullString
		lang      sql.NullString
		budget    sql.NullFloat64
		revenue   sql.NullFloat64
		companies sql.NullString
		countries sql.NullString
		rating    sql.NullFloat64
		runtime   sql.NullInt64
		overview  sql.NullString
		spoken    sql.NullString
		poster    sql.NullString
		cast      sql.NullString
		director  sql.NullString
		profit    sql.NullFloat64
		roi       sql.NullFloat64
	)

	if err := row.Scan(
		&m.ID, &m.Title, &tagline, &released, &genres, &coll,
		&lang, &budget, &revenue,
		&companies, &countries,
		&m.VoteCount, &rating, &m.Popularity, &runtime,
		&overview, &spoken, &poster,
		&cast, &m.CastSize, &director, &m.CrewSize,
		&profit, &roi,
	); err != nil {
		return nil, err
	}

	m.Tagline = tagline.String
	m.ReleaseDate = released.String
	m.Genres = genres.String
	m.CollectionName = coll.String
	m.OriginalLanguage = lang.String
	m.ProductionCompanies = companies.String
	m.ProductionCountries = countries.String
	m.Overview = overview.String
	m.SpokenLanguages = spoken.String
	m.PosterPath = poster.String
	m.Cast = cast.String
	m.Director = director.String

	if budget.Valid {
		m.BudgetMUSD = &budget.Float64
	}
	if revenue.Valid {
		m.RevenueMUSD = &revenue.Float64
	}
	if rating.Valid {
		m.VoteAverage = &rating.Float64
	}
	if runtime.Valid {
		m.Runtime = &runtime.Int64
	}
	if profit.Valid {
		m.ProfitMUSD = &profit.Float64
	}
	if roi.Valid {
		m.ROI = &roi.Float64
	}

	return &m, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullF64(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullI64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
