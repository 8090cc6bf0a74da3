package tmdb

// Movie is the raw payload returned by GET /movie/{id} with credits
// appended. Field names follow the API; nothing is normalized here.
// Flattening and type coercion happen in the clean package.
type Movie struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Tagline             string     `json:"tagline"`
	Status              string     `json:"status"`
	ReleaseDate         string     `json:"release_date"`
	Budget              int64      `json:"budget"`
	Revenue             int64      `json:"revenue"`
	Runtime             int64      `json:"runtime"`
	OriginalLanguage    string     `json:"original_language"`
	Overview            string     `json:"overview"`
	PosterPath          string     `json:"poster_path"`
	Popularity          float64    `json:"popularity"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int64      `json:"vote_count"`
	Genres              []NamedRef `json:"genres"`
	BelongsToCollection *NamedRef  `json:"belongs_to_collection"`
	SpokenLanguages     []NamedRef `json:"spoken_languages"`
	ProductionCompanies []NamedRef `json:"production_companies"`
	ProductionCountries []NamedRef `json:"production_countries"`
	Credits             Credits    `json:"credits"`
}

type NamedRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}
