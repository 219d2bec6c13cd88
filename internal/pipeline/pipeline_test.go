package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinotrend/internal/config"
	"kinotrend/internal/models"
	"kinotrend/pkg/logger"
)

// fakeSource is an in-memory MetadataSource.
type fakeSource struct {
	trendingMovies []models.TMDBMovie
	discoverMovies []models.TMDBMovie
	trendingTV     []models.TMDBTV
	discoverTV     []models.TMDBTV
	movieGenres    models.GenreDictionary
	tvGenres       models.GenreDictionary
	movieRuntimes  map[int]int
	tvSeasons      map[int]int
	tvLastAirDates map[int]string
	keywords       map[int][]string

	downloadedURLs []string
}

func (f *fakeSource) TrendingMovies() ([]models.TMDBMovie, error) { return f.trendingMovies, nil }
func (f *fakeSource) TrendingTV() ([]models.TMDBTV, error)        { return f.trendingTV, nil }

func (f *fakeSource) DiscoverMovies(start, end string) ([]models.TMDBMovie, error) {
	return f.discoverMovies, nil
}

func (f *fakeSource) DiscoverTV(start, end string) ([]models.TMDBTV, error) {
	return f.discoverTV, nil
}

func (f *fakeSource) MovieGenres() (models.GenreDictionary, error) { return f.movieGenres, nil }
func (f *fakeSource) TVGenres() (models.GenreDictionary, error)    { return f.tvGenres, nil }

func (f *fakeSource) MovieDetails(id int) (*models.TMDBMovieDetails, error) {
	return &models.TMDBMovieDetails{ID: id, Runtime: f.movieRuntimes[id]}, nil
}

func (f *fakeSource) TVDetails(id int) (*models.TMDBTVDetails, error) {
	return &models.TMDBTVDetails{
		ID:              id,
		NumberOfSeasons: f.tvSeasons[id],
		LastAirDate:     f.tvLastAirDates[id],
	}, nil
}

func (f *fakeSource) MovieKeywords(id int) []string { return f.keywords[id] }
func (f *fakeSource) TVKeywords(id int) []string    { return f.keywords[id] }

func (f *fakeSource) DownloadImage(url string) ([]byte, error) {
	f.downloadedURLs = append(f.downloadedURLs, url)
	return []byte("image-bytes"), nil
}

// captureRenderer records every spec it is asked to render.
type captureRenderer struct {
	specs []models.PosterSpec
}

func (r *captureRenderer) Render(spec models.PosterSpec) (string, error) {
	r.specs = append(r.specs, spec)
	return spec.Title + ".jpg", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Language:      "ru-RU",
		ShortLanguage: "ru",
		TargetScript:  "cyrillic",
		MinRating:     6.0,
		MaxAgeDays:    365,
		MoviesMax:     10,
		TVShowsMax:    10,
	}
}

func testNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, err)
	return now
}

func movie(id int, title string, rating float64) models.TMDBMovie {
	return models.TMDBMovie{
		ID:           id,
		Title:        title,
		VoteAverage:  rating,
		ReleaseDate:  "2026-05-01",
		BackdropPath: fmt.Sprintf("/backdrop-%d.jpg", id),
	}
}

func tvShow(id int, name string, rating float64) models.TMDBTV {
	return models.TMDBTV{
		ID:           id,
		Name:         name,
		VoteAverage:  rating,
		FirstAirDate: "2026-05-01",
		BackdropPath: fmt.Sprintf("/backdrop-%d.jpg", id),
	}
}

func renderedTitles(r *captureRenderer) []string {
	titles := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		titles = append(titles, s.Title)
	}
	return titles
}

func TestRunMoviesSortsByRatingAndTruncates(t *testing.T) {
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{
			movie(1, "Первый", 8.5),
			movie(2, "Второй", 9.0),
		},
		discoverMovies: []models.TMDBMovie{
			movie(3, "Третий", 8.5),
			movie(4, "Четвёртый", 7.0),
		},
	}
	renderer := &captureRenderer{}
	cfg := testConfig()
	cfg.MoviesMax = 2

	p := New(cfg, src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	// 9.0 first, then the 8.5 that appeared earlier in the merged list:
	// the sort is stable across equal ratings.
	assert.Equal(t, []string{"Второй", "Первый"}, renderedTitles(renderer))
}

func TestRunMoviesTruncatesBeforeFiltering(t *testing.T) {
	// The low-rated entries win the top-max slots by rating, then get
	// filtered out, so the final set is smaller than max. The high-count
	// survivors below the cut must not be promoted.
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{
			movie(1, "Слабый", 5.0),
			movie(2, "Слабее", 4.0),
			movie(3, "Сильный", 3.0),
		},
	}
	renderer := &captureRenderer{}
	cfg := testConfig()
	cfg.MoviesMax = 2
	cfg.MinRating = 4.5

	p := New(cfg, src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	assert.Equal(t, []string{"Слабый"}, renderedTitles(renderer))
}

func TestRunMoviesDedupe(t *testing.T) {
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{movie(1, "Дубль", 8.0)},
		discoverMovies: []models.TMDBMovie{movie(1, "Дубль", 8.0)},
	}

	// Default: duplicates survive the merge.
	renderer := &captureRenderer{}
	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()
	assert.Len(t, renderer.specs, 2)

	// Opt-in: one poster per id.
	renderer = &captureRenderer{}
	cfg := testConfig()
	cfg.DedupeResults = true
	p = New(cfg, src, renderer, logger.New(), testNow(t))
	p.RunMovies()
	assert.Len(t, renderer.specs, 1)
}

func TestRunMoviesSkipsForeignScriptTitles(t *testing.T) {
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{
			movie(1, "Дюна", 8.0),
			movie(2, "Dune", 8.0),
		},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	assert.Equal(t, []string{"Дюна"}, renderedTitles(renderer))
}

func TestRunMoviesRatingRoundedBeforeThreshold(t *testing.T) {
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{
			movie(1, "Почти", 5.96), // rounds to 6.0, passes
			movie(2, "Мимо", 5.94),  // rounds to 5.9, fails
		},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	require.Len(t, renderer.specs, 1)
	assert.Equal(t, "Почти", renderer.specs[0].Title)
	assert.Equal(t, 6.0, renderer.specs[0].Rating)
}

func TestRunMoviesStaleExcluded(t *testing.T) {
	old := movie(1, "Старый", 8.0)
	old.ReleaseDate = "2024-01-01"
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{old, movie(2, "Новый", 8.0)},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	assert.Equal(t, []string{"Новый"}, renderedTitles(renderer))
}

func TestRunMoviesSpecFields(t *testing.T) {
	m := movie(7, "Дюна", 8.47)
	m.GenreIDs = []int{878, 12, 424242}
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{m},
		movieGenres:    models.GenreDictionary{878: "Фантастика", 12: "Приключения"},
		movieRuntimes:  map[int]int{7: 166},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	require.Len(t, renderer.specs, 1)
	spec := renderer.specs[0]
	assert.Equal(t, models.KindMovie, spec.Kind)
	assert.Equal(t, 7, spec.ID)
	assert.Equal(t, "Фантастика, Приключения", spec.GenreText)
	assert.Equal(t, "2026", spec.Year)
	assert.Equal(t, 8.5, spec.Rating)
	assert.Equal(t, "2ч 46мин", spec.InfoText)
	assert.Equal(t, []byte("image-bytes"), spec.Backdrop)
	assert.Equal(t, []string{"https://image.tmdb.org/t/p/original/backdrop-7.jpg"}, src.downloadedURLs)
}

func TestRunTVSeasonsText(t *testing.T) {
	src := &fakeSource{
		trendingTV: []models.TMDBTV{
			tvShow(1, "Первый сезонник", 8.0),
			tvShow(2, "Многосезонник", 7.5),
		},
		tvSeasons:      map[int]int{1: 1, 2: 3},
		tvLastAirDates: map[int]string{1: "2026-06-01", 2: "2026-06-01"},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunTV()

	require.Len(t, renderer.specs, 2)
	assert.Equal(t, "1 Season", renderer.specs[0].InfoText)
	assert.Equal(t, "3 Seasons", renderer.specs[1].InfoText)
}

func TestRunTVTitleTruncated(t *testing.T) {
	long := tvShow(1, "Очень длинное название сериала которое никуда не помещается", 8.0)
	src := &fakeSource{
		trendingTV:     []models.TMDBTV{long},
		tvSeasons:      map[int]int{1: 2},
		tvLastAirDates: map[int]string{1: "2026-06-01"},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunTV()

	require.Len(t, renderer.specs, 1)
	assert.LessOrEqual(t, len([]rune(renderer.specs[0].Title)), 38)
}

func TestRunTVStalenessUsesLastAirDate(t *testing.T) {
	// First aired long ago but still airing: kept. Last aired long ago:
	// dropped even though the first air date is recent enough.
	running := tvShow(1, "Долгожитель", 8.0)
	running.FirstAirDate = "2015-01-01"
	ended := tvShow(2, "Завершённый", 8.0)

	src := &fakeSource{
		trendingTV:     []models.TMDBTV{running, ended},
		tvSeasons:      map[int]int{1: 10, 2: 2},
		tvLastAirDates: map[int]string{1: "2026-08-01", 2: "2023-01-01"},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunTV()

	assert.Equal(t, []string{"Долгожитель"}, renderedTitles(renderer))
}

func TestRenderSkipsMissingBackdrop(t *testing.T) {
	noBackdrop := movie(1, "Без фона", 8.0)
	noBackdrop.BackdropPath = ""
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{noBackdrop},
	}
	renderer := &captureRenderer{}

	p := New(testConfig(), src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	assert.Empty(t, renderer.specs)
	assert.Empty(t, src.downloadedURLs)
}

func TestKeywordExclusion(t *testing.T) {
	src := &fakeSource{
		trendingMovies: []models.TMDBMovie{
			movie(1, "Обычный", 8.0),
			movie(2, "Лишний", 8.0),
		},
		keywords: map[int][]string{2: {"anime"}},
	}
	renderer := &captureRenderer{}
	cfg := testConfig()
	cfg.ExcludedKeywords = []string{"anime"}

	p := New(cfg, src, renderer, logger.New(), testNow(t))
	p.RunMovies()

	assert.Equal(t, []string{"Обычный"}, renderedTitles(renderer))
}

func TestDiscoverWindow(t *testing.T) {
	p := New(testConfig(), &fakeSource{}, &captureRenderer{}, logger.New(), testNow(t))
	start, end := p.discoverWindow()
	assert.Equal(t, "2025-08-28", start)
	assert.Equal(t, "2026-08-28", end)
}
