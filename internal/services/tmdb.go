// Package services contains the external API clients: TMDB for catalog
// metadata and Reddit for publishing.
package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"kinotrend/internal/cache"
	"kinotrend/internal/constants"
	"kinotrend/internal/database"
	"kinotrend/internal/models"
	"kinotrend/pkg/logger"
	"kinotrend/pkg/ratelimiter"
)

// TMDB is the metadata client. All calls are synchronous and rate-limited;
// lookups for details and keywords go through a two-tier cache (LRU memory
// in front of BoltDB).
type TMDB struct {
	token         string
	language      string
	shortLanguage string
	baseURL       string
	cache         *cache.LRUCache
	db            database.Database
	rateLimiter   *ratelimiter.TokenBucket
	httpClient    *http.Client
	imageClient   *http.Client
	logger        logger.Logger
}

// NewTMDB creates a TMDB client. The token is the API read access token
// sent as a bearer header; language selects the localized catalogs and
// shortLanguage the logo locale.
func NewTMDB(token, language, shortLanguage string, c *cache.LRUCache) *TMDB {
	return &TMDB{
		token:         token,
		language:      language,
		shortLanguage: shortLanguage,
		baseURL:       constants.TMDBBaseURL,
		cache:         c,
		rateLimiter:   ratelimiter.NewTokenBucket(constants.TMDBRateLimit, constants.TMDBRateBurst),
		httpClient: &http.Client{
			Timeout: constants.MetadataRequestTimeout,
		},
		imageClient: &http.Client{
			Timeout: constants.ImageDownloadTimeout,
		},
		logger: logger.New(),
	}
}

// SetDB attaches the persistent lookup cache.
func (t *TMDB) SetDB(db database.Database) {
	t.db = db
}

// TrendingMovies fetches this week's trending movies in the run language.
func (t *TMDB) TrendingMovies() ([]models.TMDBMovie, error) {
	apiURL := fmt.Sprintf("%s/trending/movie/week?language=%s",
		t.baseURL, url.QueryEscape(t.language))

	var resp models.TMDBMovieResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch trending movies: %w", err)
	}
	return resp.Results, nil
}

// TrendingTV fetches this week's trending TV shows in the run language.
func (t *TMDB) TrendingTV() ([]models.TMDBTV, error) {
	apiURL := fmt.Sprintf("%s/trending/tv/week?language=%s",
		t.baseURL, url.QueryEscape(t.language))

	var resp models.TMDBTVResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch trending tv: %w", err)
	}
	return resp.Results, nil
}

// DiscoverMovies fetches the first discovery page for movies released
// inside [startDate, endDate] (ISO dates), sorted by popularity.
func (t *TMDB) DiscoverMovies(startDate, endDate string) ([]models.TMDBMovie, error) {
	q := t.discoverBaseQuery()
	q.Set("with_release_type", "4|5|6")
	q.Set("include_video", "false")
	q.Set("without_genres", constants.DiscoverWithoutGenresMovie)
	q.Set("release_date.gte", startDate)
	q.Set("release_date.lte", endDate)

	apiURL := fmt.Sprintf("%s/discover/movie?%s", t.baseURL, q.Encode())

	var resp models.TMDBMovieResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch discover movies: %w", err)
	}
	return resp.Results, nil
}

// DiscoverTV fetches the first discovery page for TV shows first aired
// inside [startDate, endDate] (ISO dates), sorted by popularity.
func (t *TMDB) DiscoverTV(startDate, endDate string) ([]models.TMDBTV, error) {
	q := t.discoverBaseQuery()
	q.Set("without_genres", constants.DiscoverWithoutGenresTV)
	q.Set("first_air_date.gte", startDate)
	q.Set("first_air_date.lte", endDate)

	apiURL := fmt.Sprintf("%s/discover/tv?%s", t.baseURL, q.Encode())

	var resp models.TMDBTVResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch discover tv: %w", err)
	}
	return resp.Results, nil
}

func (t *TMDB) discoverBaseQuery() url.Values {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	q.Set("language", t.language)
	q.Set("include_adult", "false")
	q.Set("page", "1")
	q.Set("vote_average.gte", fmt.Sprintf("%d", constants.DiscoverMinVoteAverage))
	q.Set("vote_count.gte", fmt.Sprintf("%d", constants.DiscoverMinVoteCount))
	q.Set("with_runtime.gte", fmt.Sprintf("%d", constants.DiscoverMinRuntime))
	return q
}

// MovieGenres fetches the movie genre dictionary, memory-cached for the
// run. A fetch failure yields an empty dictionary.
func (t *TMDB) MovieGenres() (models.GenreDictionary, error) {
	return t.genres(models.KindMovie)
}

// TVGenres fetches the TV genre dictionary, memory-cached for the run.
// A fetch failure yields an empty dictionary.
func (t *TMDB) TVGenres() (models.GenreDictionary, error) {
	return t.genres(models.KindTV)
}

func (t *TMDB) genres(kind models.MediaKind) (models.GenreDictionary, error) {
	cacheKey := fmt.Sprintf("genres:%s", kind)
	if data, found := t.cache.Get(cacheKey); found {
		return data.(models.GenreDictionary), nil
	}

	apiURL := fmt.Sprintf("%s/genre/%s/list?language=%s",
		t.baseURL, kind, url.QueryEscape(t.language))

	dict := models.GenreDictionary{}
	var resp models.TMDBGenreResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		return dict, fmt.Errorf("failed to fetch %s genres: %w", kind, err)
	}
	for _, g := range resp.Genres {
		dict[g.ID] = g.Name
	}

	t.cache.Set(cacheKey, dict)
	return dict, nil
}

// BackdropURL builds the full image URL for a backdrop or logo file path.
func (t *TMDB) BackdropURL(filePath string) string {
	return constants.TMDBImageBaseURL + filePath
}

// DownloadImage fetches raw image bytes with a bounded timeout.
func (t *TMDB) DownloadImage(imageURL string) ([]byte, error) {
	resp, err := t.imageClient.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}
