package models

import "math"

// MediaKind distinguishes movies from TV shows in paths and cache keys.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// MediaRecord is the kind-neutral view of a list entry. It is produced by
// the metadata client and read-only downstream.
type MediaRecord struct {
	ID            int
	Kind          MediaKind
	Title         string
	Overview      string
	ReleaseDate   string // release date for movies, first air date for TV
	Rating        float64
	GenreIDs      []int
	BackdropPath  string
	OriginCountry []string
}

// FromMovie converts a TMDB movie list entry into a MediaRecord.
func FromMovie(m TMDBMovie) MediaRecord {
	return MediaRecord{
		ID:            m.ID,
		Kind:          KindMovie,
		Title:         m.Title,
		Overview:      m.Overview,
		ReleaseDate:   m.ReleaseDate,
		Rating:        m.VoteAverage,
		GenreIDs:      m.GenreIDs,
		BackdropPath:  m.BackdropPath,
		OriginCountry: m.OriginCountry,
	}
}

// FromTV converts a TMDB TV list entry into a MediaRecord.
func FromTV(t TMDBTV) MediaRecord {
	return MediaRecord{
		ID:            t.ID,
		Kind:          KindTV,
		Title:         t.Name,
		Overview:      t.Overview,
		ReleaseDate:   t.FirstAirDate,
		Rating:        t.VoteAverage,
		GenreIDs:      t.GenreIDs,
		BackdropPath:  t.BackdropPath,
		OriginCountry: t.OriginCountry,
	}
}

// RoundRating rounds a vote average to one decimal. Ratings are rounded
// before both threshold comparison and display.
func RoundRating(rating float64) float64 {
	return math.Round(rating*10) / 10
}

// GenreDictionary maps TMDB genre ids to display names for one media kind.
type GenreDictionary map[int]string

// Resolve returns the display name for a genre id, or the empty string
// when the id is unknown.
func (g GenreDictionary) Resolve(id int) string {
	return g[id]
}

// PosterSpec is the fully resolved set of fields needed to render one
// poster.
type PosterSpec struct {
	Kind      MediaKind
	ID        int
	Title     string
	GenreText string
	Year      string
	Rating    float64
	// InfoText is the formatted runtime for movies or the season-count
	// text for TV shows.
	InfoText   string
	Backdrop   []byte
	CustomText string
}
