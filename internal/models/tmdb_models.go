// Package models defines data structures for TMDB API responses and the
// internal records derived from them.
package models

// TMDBMovie is a movie entry from a trending or discover list.
type TMDBMovie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	ReleaseDate   string   `json:"release_date"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	GenreIDs      []int    `json:"genre_ids"`
	OriginCountry []string `json:"origin_country"`
	Popularity    float64  `json:"popularity"`
}

// TMDBTV is a TV show entry from a trending or discover list.
type TMDBTV struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name"`
	Overview      string   `json:"overview"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	FirstAirDate  string   `json:"first_air_date"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	GenreIDs      []int    `json:"genre_ids"`
	OriginCountry []string `json:"origin_country"`
	Popularity    float64  `json:"popularity"`
}

type TMDBMovieResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type TMDBTVResponse struct {
	Page         int      `json:"page"`
	Results      []TMDBTV `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBGenreResponse struct {
	Genres []TMDBGenre `json:"genres"`
}

// TMDBMovieDetails carries the supplementary movie attributes fetched
// lazily for records that pass filtering.
type TMDBMovieDetails struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
}

// TMDBTVDetails carries the supplementary TV attributes fetched lazily for
// records that pass filtering.
type TMDBTVDetails struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	FirstAirDate    string  `json:"first_air_date"`
	LastAirDate     string  `json:"last_air_date"`
	NumberOfSeasons int     `json:"number_of_seasons"`
	VoteAverage     float64 `json:"vote_average"`
}

type TMDBKeyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBKeywordResponse covers both envelope variants: the movie endpoint
// returns "keywords", the TV endpoint returns "results".
type TMDBKeywordResponse struct {
	ID       int           `json:"id"`
	Keywords []TMDBKeyword `json:"keywords"`
	Results  []TMDBKeyword `json:"results"`
}

type TMDBLogo struct {
	FilePath    string  `json:"file_path"`
	ISO6391     string  `json:"iso_639_1"`
	AspectRatio float64 `json:"aspect_ratio"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

type TMDBImagesResponse struct {
	ID    int        `json:"id"`
	Logos []TMDBLogo `json:"logos"`
}
