// Package constants defines application-wide constants and default values.
package constants

const (
	// TMDB API
	TMDBBaseURL      = "https://api.themoviedb.org/3"
	TMDBImageBaseURL = "https://image.tmdb.org/t/p/original"

	// Reddit API
	RedditBaseURL      = "https://www.reddit.com"
	RedditOAuthBaseURL = "https://oauth.reddit.com"

	// Brand shown in the rating segment of the metadata line
	RatingBrand = "TMDB"

	// Default configuration values
	DefaultLanguage     = "ru-RU"
	DefaultScript       = "cyrillic"
	DefaultMinRating    = 6.0
	DefaultMaxAgeDays   = 365
	DefaultMoviesMax    = 10
	DefaultTVShowsMax   = 10
	DefaultOutputDir    = "tmdb_backgrounds"
	DefaultAssetsDir    = "assets"
	DefaultPort         = "5000"
	DefaultLogLevel     = "info"
	DefaultExcludedKeys = "adult"

	// Discover query floors, matching the source catalog queries
	DiscoverMinVoteAverage = 1
	DiscoverMinVoteCount   = 50
	DiscoverMinRuntime     = 15

	// Rate limiting
	TMDBRateLimit = 20 // requests per second
	TMDBRateBurst = 5  // burst capacity

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// TV titles longer than this are cut before any further processing
	TVTitleMaxRunes = 38

	// Roboto-Light is fetched once when missing from the assets directory
	FontDownloadURL = "https://github.com/googlefonts/roboto/raw/main/src/hinted/Roboto-Light.ttf"
	FontFileName    = "Roboto-Light.ttf"
)

// Template layer file names expected in the assets directory.
const (
	CanvasFileName    = "bckg.png"
	OverlayFileName   = "overlay.png"
	WatermarkFileName = "tmdblogo.png"
)

// Genres excluded at the discover-query level (Documentary for both kinds,
// Animation additionally for TV), matching the source catalog queries.
const (
	DiscoverWithoutGenresMovie = "99"
	DiscoverWithoutGenresTV    = "99|16"
)
