// Package config provides environment-sourced run configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kinotrend/internal/constants"
)

// Config holds one run's configuration. It is built once by Load and
// treated as immutable afterwards.
type Config struct {
	// TMDB API read access token (bearer)
	TMDBToken string

	// Reddit account and target forum
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	RedditUserAgent    string
	SubredditName      string

	// Locale of the fetched catalogs, e.g. "ru-RU". ShortLanguage is its
	// primary subtag, used for logo lookups.
	Language      string
	ShortLanguage string

	// Name of the writing system whose presence in a title marks it as
	// belonging to the target language.
	TargetScript string

	// Per-kind exclusion criteria
	MovieExcludedCountries []string
	MovieExcludedGenres    []string
	TVExcludedCountries    []string
	TVExcludedGenres       []string
	ExcludedKeywords       []string

	MinRating  float64
	MaxAgeDays int

	MoviesMax  int
	TVShowsMax int

	// DedupeResults removes duplicate ids from the merged trending and
	// discovery lists. Off by default: the source concatenated the lists
	// without de-duplication.
	DedupeResults bool

	OutputDir   string
	AssetsDir   string
	DatabaseDir string
	CustomText  string
}

// Load reads configuration from the environment, after loading an optional
// .env file. Returns an error when required credentials are absent.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		TMDBToken:          os.Getenv("TMDB_TOKEN"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUsername:     os.Getenv("REDDIT_USERNAME"),
		RedditPassword:     os.Getenv("REDDIT_PASSWORD"),
		RedditUserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		SubredditName:      os.Getenv("SUBREDDIT_NAME"),

		Language:     getEnvOrDefault("LANGUAGE", constants.DefaultLanguage),
		TargetScript: getEnvOrDefault("TARGET_SCRIPT", constants.DefaultScript),

		MovieExcludedCountries: splitList(os.Getenv("MOVIE_EXCLUDED_COUNTRIES")),
		MovieExcludedGenres:    splitListVerbatim(os.Getenv("MOVIE_EXCLUDED_GENRES")),
		TVExcludedCountries:    splitList(os.Getenv("TV_EXCLUDED_COUNTRIES")),
		TVExcludedGenres:       splitListVerbatim(os.Getenv("TV_EXCLUDED_GENRES")),
		ExcludedKeywords:       splitList(getEnvOrDefault("EXCLUDED_KEYWORDS", constants.DefaultExcludedKeys)),

		MinRating:  getEnvFloat("MIN_RATING", constants.DefaultMinRating),
		MaxAgeDays: getEnvInt("MAX_AGE_DAYS", constants.DefaultMaxAgeDays),
		MoviesMax:  getEnvInt("MOVIES_MAX", constants.DefaultMoviesMax),
		TVShowsMax: getEnvInt("TVSHOWS_MAX", constants.DefaultTVShowsMax),

		DedupeResults: getEnvBool("DEDUPE_RESULTS", false),

		OutputDir:   getEnvOrDefault("OUTPUT_DIR", constants.DefaultOutputDir),
		AssetsDir:   getEnvOrDefault("ASSETS_DIR", constants.DefaultAssetsDir),
		DatabaseDir: getEnvOrDefault("DATABASE_DIR", "."),
		CustomText:  os.Getenv("CUSTOM_TEXT"),
	}

	cfg.ShortLanguage = shortLanguage(cfg.Language)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required fields are present and numeric fields are
// in range.
func (c *Config) Validate() error {
	if c.TMDBToken == "" {
		return fmt.Errorf("TMDB_TOKEN is required")
	}
	if c.MinRating < 0 || c.MinRating > 10 {
		return fmt.Errorf("MIN_RATING must be between 0 and 10, got %v", c.MinRating)
	}
	if c.MoviesMax < 0 || c.TVShowsMax < 0 {
		return fmt.Errorf("MOVIES_MAX and TVSHOWS_MAX must not be negative")
	}
	return nil
}

// MaxAirDate returns the staleness cutoff for this run: records whose
// relevant date is before it are excluded.
func (c *Config) MaxAirDate(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.MaxAgeDays)
}

// RequireReddit checks that the Reddit credentials needed by the publisher
// are present.
func (c *Config) RequireReddit() error {
	switch {
	case c.RedditClientID == "" || c.RedditClientSecret == "":
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required")
	case c.RedditUsername == "" || c.RedditPassword == "":
		return fmt.Errorf("REDDIT_USERNAME and REDDIT_PASSWORD are required")
	case c.SubredditName == "":
		return fmt.Errorf("SUBREDDIT_NAME is required")
	}
	return nil
}

// splitList parses a comma-separated env value into lower-cased entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitListVerbatim parses a comma-separated env value, trimming but
// preserving case. Genre names must match the catalog's display names
// exactly.
func splitListVerbatim(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// shortLanguage extracts the primary subtag from a locale, "ru-RU" -> "ru".
func shortLanguage(language string) string {
	if i := strings.IndexAny(language, "-_"); i > 0 {
		return strings.ToLower(language[:i])
	}
	return strings.ToLower(language)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
