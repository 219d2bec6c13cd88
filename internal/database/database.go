// Package database provides persistent caching of per-title TMDB lookups.
package database

import "time"

// DetailCache holds the supplementary detail fields fetched for one title.
// Key is "<kind>:<id>".
type DetailCache struct {
	Key             string
	Kind            string // "movie" or "tv"
	TMDBID          int
	Runtime         int    // movies
	NumberOfSeasons int    // tv
	LastAirDate     string // tv
	CreatedAt       time.Time
}

// KeywordCache holds the lower-cased keyword names for one title.
type KeywordCache struct {
	Key       string
	Kind      string
	TMDBID    int
	Keywords  []string
	CreatedAt time.Time
}

// Database defines the persistence interface for cross-run lookup caching.
// Implementations return (nil, nil) for entries that are absent or expired.
type Database interface {
	// GetDetailCache retrieves cached details by key
	GetDetailCache(key string) (*DetailCache, error)
	// StoreDetailCache stores detail fields for a title
	StoreDetailCache(cache *DetailCache) error
	// GetKeywordCache retrieves cached keywords by key
	GetKeywordCache(key string) (*KeywordCache, error)
	// StoreKeywordCache stores keywords for a title
	StoreKeywordCache(cache *KeywordCache) error
	// Close closes the database
	Close() error
}
