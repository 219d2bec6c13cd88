package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"kinotrend/internal/database"
	"kinotrend/internal/models"
)

// getJSON performs a rate-limited GET with the bearer token and decodes
// the JSON body into v.
func (t *TMDB) getJSON(apiURL string, v interface{}) error {
	t.rateLimiter.Wait()

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)

	t.logger.Debugf("[TMDB] GET %s", apiURL)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func cacheKey(kind models.MediaKind, id int, what string) string {
	return fmt.Sprintf("%s:%s:%d", what, kind, id)
}

func boltKey(kind models.MediaKind, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// MovieDetails fetches supplementary movie attributes, consulting the
// memory and bolt caches first.
func (t *TMDB) MovieDetails(id int) (*models.TMDBMovieDetails, error) {
	key := cacheKey(models.KindMovie, id, "details")
	if data, found := t.cache.Get(key); found {
		return data.(*models.TMDBMovieDetails), nil
	}

	if cached := t.detailFromDB(models.KindMovie, id); cached != nil {
		details := &models.TMDBMovieDetails{ID: id, Runtime: cached.Runtime}
		t.cache.Set(key, details)
		return details, nil
	}

	apiURL := fmt.Sprintf("%s/movie/%d?language=%s",
		t.baseURL, id, url.QueryEscape(t.language))

	var details models.TMDBMovieDetails
	if err := t.getJSON(apiURL, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch movie details for %d: %w", id, err)
	}

	t.cache.Set(key, &details)
	t.storeDetail(&database.DetailCache{
		Key:     boltKey(models.KindMovie, id),
		Kind:    string(models.KindMovie),
		TMDBID:  id,
		Runtime: details.Runtime,
	})
	return &details, nil
}

// TVDetails fetches supplementary TV attributes, consulting the memory
// and bolt caches first.
func (t *TMDB) TVDetails(id int) (*models.TMDBTVDetails, error) {
	key := cacheKey(models.KindTV, id, "details")
	if data, found := t.cache.Get(key); found {
		return data.(*models.TMDBTVDetails), nil
	}

	if cached := t.detailFromDB(models.KindTV, id); cached != nil {
		details := &models.TMDBTVDetails{
			ID:              id,
			NumberOfSeasons: cached.NumberOfSeasons,
			LastAirDate:     cached.LastAirDate,
		}
		t.cache.Set(key, details)
		return details, nil
	}

	apiURL := fmt.Sprintf("%s/tv/%d?language=%s",
		t.baseURL, id, url.QueryEscape(t.language))

	var details models.TMDBTVDetails
	if err := t.getJSON(apiURL, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch tv details for %d: %w", id, err)
	}

	t.cache.Set(key, &details)
	t.storeDetail(&database.DetailCache{
		Key:             boltKey(models.KindTV, id),
		Kind:            string(models.KindTV),
		TMDBID:          id,
		NumberOfSeasons: details.NumberOfSeasons,
		LastAirDate:     details.LastAirDate,
	})
	return &details, nil
}

func (t *TMDB) detailFromDB(kind models.MediaKind, id int) *database.DetailCache {
	if t.db == nil {
		return nil
	}
	cached, err := t.db.GetDetailCache(boltKey(kind, id))
	if err != nil || cached == nil {
		return nil
	}
	return cached
}

func (t *TMDB) storeDetail(cache *database.DetailCache) {
	if t.db == nil {
		return
	}
	if err := t.db.StoreDetailCache(cache); err != nil {
		t.logger.Errorf("[TMDB] failed to store detail cache for %s: %v", cache.Key, err)
	}
}

// MovieKeywords returns the lower-cased keyword names for a movie. A fetch
// failure degrades to an empty list.
func (t *TMDB) MovieKeywords(id int) []string {
	return t.keywords(models.KindMovie, id)
}

// TVKeywords returns the lower-cased keyword names for a TV show. A fetch
// failure degrades to an empty list.
func (t *TMDB) TVKeywords(id int) []string {
	return t.keywords(models.KindTV, id)
}

func (t *TMDB) keywords(kind models.MediaKind, id int) []string {
	key := cacheKey(kind, id, "keywords")
	if data, found := t.cache.Get(key); found {
		return data.([]string)
	}

	if t.db != nil {
		if cached, err := t.db.GetKeywordCache(boltKey(kind, id)); err == nil && cached != nil {
			t.cache.Set(key, cached.Keywords)
			return cached.Keywords
		}
	}

	apiURL := fmt.Sprintf("%s/%s/%d/keywords", t.baseURL, kind, id)

	var resp models.TMDBKeywordResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		t.logger.Warnf("[TMDB] failed to fetch %s keywords for %d: %v", kind, id, err)
		return nil
	}

	// Movie endpoint wraps keywords in "keywords", TV in "results".
	entries := resp.Keywords
	if kind == models.KindTV {
		entries = resp.Results
	}

	names := make([]string, 0, len(entries))
	for _, kw := range entries {
		names = append(names, strings.ToLower(kw.Name))
	}

	t.cache.Set(key, names)
	if t.db != nil {
		err := t.db.StoreKeywordCache(&database.KeywordCache{
			Key:      boltKey(kind, id),
			Kind:     string(kind),
			TMDBID:   id,
			Keywords: names,
		})
		if err != nil {
			t.logger.Errorf("[TMDB] failed to store keyword cache for %s %d: %v", kind, id, err)
		}
	}
	return names
}

// LogoPath returns the file path of the first localized PNG logo for a
// title, or the empty string when none exists.
func (t *TMDB) LogoPath(kind models.MediaKind, id int) string {
	apiURL := fmt.Sprintf("%s/%s/%d/images?language=%s",
		t.baseURL, kind, id, url.QueryEscape(t.shortLanguage))

	var resp models.TMDBImagesResponse
	if err := t.getJSON(apiURL, &resp); err != nil {
		t.logger.Debugf("[TMDB] no logo for %s %d: %v", kind, id, err)
		return ""
	}

	for _, logo := range resp.Logos {
		if logo.ISO6391 == t.shortLanguage && strings.HasSuffix(logo.FilePath, ".png") {
			return logo.FilePath
		}
	}
	return ""
}
