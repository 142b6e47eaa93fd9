package entity

// Movie is one record of the catalog feed. The storefront core only needs
// ID and Title to label an order; the rest is browsing metadata.
type Movie struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	ReleaseDate  string   `json:"release_date"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	Genres       []string `json:"genres"`
	VoteAverage  float64  `json:"vote_average"`
	Runtime      int      `json:"runtime"`
	Cast         []string `json:"cast"`
	Directors    []string `json:"directors"`
}
