package models

// Movie is the normalized, analysis-ready form of one movie row.
// The extractor's raw API payload is flattened into this fixed schema,
// then the analyzer fills in the derived financial columns.
//
// Nested list fields are flattened with fixed rules:
//   - Genres / SpokenLanguages / ProductionCompanies / ProductionCountries:
//     pipe-joined names, e.g. "Action|Science Fiction"
//   - Cast: first 5 cast members in API order, pipe-joined
//   - Director: first crew member with job "Director", else "Unknown"
//
// Numeric pointer fields are nil when the source value was missing or an
// invalid sentinel (budget/revenue/runtime of 0, vote_average with no votes).
type Movie struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Tagline             string   `json:"tagline,omitempty"`
	ReleaseDate         string   `json:"release_date,omitempty"` // YYYY-MM-DD
	Genres              string   `json:"genres,omitempty"`
	CollectionName      string   `json:"collection_name,omitempty"`
	OriginalLanguage    string   `json:"original_language,omitempty"`
	BudgetMUSD          *float64 `json:"budget_musd,omitempty"`
	RevenueMUSD         *float64 `json:"revenue_musd,omitempty"`
	ProductionCompanies string   `json:"production_companies,omitempty"`
	ProductionCountries string   `json:"production_countries,omitempty"`
	VoteCount           int64    `json:"vote_count"`
	VoteAverage         *float64 `json:"vote_average,omitempty"`
	Popularity          float64  `json:"popularity"`
	Runtime             *int64   `json:"runtime,omitempty"` // minutes
	Overview            string   `json:"overview,omitempty"`
	SpokenLanguages     string   `json:"spoken_languages,omitempty"`
	PosterPath          string   `json:"poster_path,omitempty"`
	Cast                string   `json:"cast,omitempty"`
	CastSize            int      `json:"cast_size"`
	Director            string   `json:"director,omitempty"`
	CrewSize            int      `json:"crew_size"`

	// Derived by the analyzer. ROI is nil when the budget is unknown or
	// zero; it is never +Inf.
	ProfitMUSD *float64 `json:"profit_musd,omitempty"`
	ROI        *float64 `json:"roi,omitempty"`
}

// PrimaryGenre returns the first genre of the pipe-joined list, or "".
func (m Movie) PrimaryGenre() string {
	for i := 0; i < len(m.Genres); i++ {
		if m.Genres[i] == '|' {
			return m.Genres[:i]
		}
	}
	return m.Genres
}

// IsFranchise reports whether the movie belongs to a collection.
func (m Movie) IsFranchise() bool {
	return m.CollectionName != ""
}

// ReleaseYear returns the year of ReleaseDate, or 0 when unknown.
func (m Movie) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year := 0
	for _, r := range m.ReleaseDate[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
