// Package filter implements the exclusion rules applied to catalog
// records before rendering.
package filter

import (
	"strings"
	"time"

	"kinotrend/internal/models"
)

// dateLayout is the calendar date format used by TMDB.
const dateLayout = "2006-01-02"

// Criteria is the per-kind exclusion configuration. Immutable for a run.
type Criteria struct {
	ExcludedCountries map[string]bool
	ExcludedGenres    map[string]bool
	ExcludedKeywords  map[string]bool
	MinRating         float64
	// Records whose relevant date is before MaxAirDate are excluded.
	MaxAirDate time.Time
}

// NewCriteria builds Criteria from configuration lists. Countries and
// keywords are matched lower-cased; genre names are matched verbatim.
func NewCriteria(countries, genres, keywords []string, minRating float64, maxAirDate time.Time) Criteria {
	return Criteria{
		ExcludedCountries: toSet(countries, true),
		ExcludedGenres:    toSet(genres, false),
		ExcludedKeywords:  toSet(keywords, true),
		MinRating:         minRating,
		MaxAirDate:        maxAirDate,
	}
}

func toSet(values []string, lower bool) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if lower {
			v = strings.ToLower(v)
		}
		set[v] = true
	}
	return set
}

// MetadataLookup provides the auxiliary lookups the engine needs: keyword
// names for a title and the last air date of a TV show. Both degrade to
// empty values on failure.
type MetadataLookup interface {
	Keywords(kind models.MediaKind, id int) []string
	TVLastAirDate(id int) string
}

// Engine evaluates the exclusion rules against candidate records.
type Engine struct {
	lookup MetadataLookup
}

// NewEngine creates a filter engine backed by the given lookup source.
func NewEngine(lookup MetadataLookup) *Engine {
	return &Engine{lookup: lookup}
}

// ShouldExclude reports whether a record is excluded by country, genre,
// keyword, or staleness. Any one matching rule excludes the record.
//
// The keyword lookup is only performed when the excluded-keyword set is
// non-empty, and the last-air-date lookup only for TV records, so that
// no API call is wasted on criteria that cannot match.
func (e *Engine) ShouldExclude(rec models.MediaRecord, crit Criteria, genres models.GenreDictionary) bool {
	if crit.ExcludedCountries[primaryCountry(rec)] {
		return true
	}

	for _, id := range rec.GenreIDs {
		if name := genres.Resolve(id); name != "" && crit.ExcludedGenres[name] {
			return true
		}
	}

	if len(crit.ExcludedKeywords) > 0 {
		for _, kw := range e.lookup.Keywords(rec.Kind, rec.ID) {
			if crit.ExcludedKeywords[strings.ToLower(kw)] {
				return true
			}
		}
	}

	return e.isStale(rec, crit)
}

// isStale checks the relevant date against the cutoff: release date for
// movies, last air date for TV shows. Missing or unparsable dates never
// exclude a record.
func (e *Engine) isStale(rec models.MediaRecord, crit Criteria) bool {
	dateStr := rec.ReleaseDate
	if rec.Kind == models.KindTV {
		dateStr = e.lookup.TVLastAirDate(rec.ID)
	}
	if dateStr == "" {
		return false
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return false
	}
	return date.Before(crit.MaxAirDate)
}

// primaryCountry returns the lower-cased first origin country of a
// record, or the empty string when none is listed.
func primaryCountry(rec models.MediaRecord) string {
	if len(rec.OriginCountry) == 0 {
		return ""
	}
	return strings.ToLower(rec.OriginCountry[0])
}
