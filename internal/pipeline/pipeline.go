// Package pipeline orchestrates the catalog run: fetch, merge, sort,
// truncate, filter, enrich, composite.
package pipeline

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"kinotrend/internal/config"
	"kinotrend/internal/constants"
	"kinotrend/internal/filter"
	"kinotrend/internal/models"
	"kinotrend/internal/poster"
	"kinotrend/pkg/logger"
)

// MetadataSource is the catalog API surface the pipeline consumes.
type MetadataSource interface {
	TrendingMovies() ([]models.TMDBMovie, error)
	TrendingTV() ([]models.TMDBTV, error)
	DiscoverMovies(startDate, endDate string) ([]models.TMDBMovie, error)
	DiscoverTV(startDate, endDate string) ([]models.TMDBTV, error)
	MovieGenres() (models.GenreDictionary, error)
	TVGenres() (models.GenreDictionary, error)
	MovieDetails(id int) (*models.TMDBMovieDetails, error)
	TVDetails(id int) (*models.TMDBTVDetails, error)
	MovieKeywords(id int) []string
	TVKeywords(id int) []string
	DownloadImage(url string) ([]byte, error)
}

// PosterRenderer renders one poster and returns the written file path.
type PosterRenderer interface {
	Render(spec models.PosterSpec) (string, error)
}

// Pipeline runs the whole catalog flow for one invocation. It holds no
// state beyond its read-only collaborators; nothing outlives a run.
type Pipeline struct {
	cfg      *config.Config
	src      MetadataSource
	engine   *filter.Engine
	renderer PosterRenderer
	script   *unicode.RangeTable
	logger   logger.Logger
	now      time.Time
}

// New creates a pipeline for one run anchored at now.
func New(cfg *config.Config, src MetadataSource, renderer PosterRenderer, log logger.Logger, now time.Time) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		src:      src,
		engine:   filter.NewEngine(sourceLookup{src}),
		renderer: renderer,
		script:   filter.ScriptTable(cfg.TargetScript),
		logger:   log,
		now:      now,
	}
}

// Run clears the output directory, then processes movies and TV shows in
// sequence. Only output directory setup is fatal; everything downstream
// degrades per item.
func (p *Pipeline) Run() error {
	if err := poster.ResetOutputDir(p.cfg.OutputDir); err != nil {
		return err
	}

	p.RunMovies()
	p.RunTV()
	return nil
}

// RunMovies processes the movie catalogs.
func (p *Pipeline) RunMovies() {
	genres, err := p.src.MovieGenres()
	if err != nil {
		p.logger.Warnf("[Pipeline] movie genres unavailable: %v", err)
	}

	trending, err := p.src.TrendingMovies()
	if err != nil {
		p.logger.Warnf("[Pipeline] trending movies unavailable: %v", err)
	}
	start, end := p.discoverWindow()
	discovered, err := p.src.DiscoverMovies(start, end)
	if err != nil {
		p.logger.Warnf("[Pipeline] discover movies unavailable: %v", err)
	}

	records := make([]models.MediaRecord, 0, len(trending)+len(discovered))
	for _, m := range trending {
		records = append(records, models.FromMovie(m))
	}
	for _, m := range discovered {
		records = append(records, models.FromMovie(m))
	}

	records = p.prepare(records, p.cfg.MoviesMax)
	crit := filter.NewCriteria(
		p.cfg.MovieExcludedCountries,
		p.cfg.MovieExcludedGenres,
		p.cfg.ExcludedKeywords,
		p.cfg.MinRating,
		p.cfg.MaxAirDate(p.now),
	)

	for _, rec := range records {
		p.processMovie(rec, crit, genres)
	}
}

// RunTV processes the TV catalogs.
func (p *Pipeline) RunTV() {
	genres, err := p.src.TVGenres()
	if err != nil {
		p.logger.Warnf("[Pipeline] tv genres unavailable: %v", err)
	}

	trending, err := p.src.TrendingTV()
	if err != nil {
		p.logger.Warnf("[Pipeline] trending tv unavailable: %v", err)
	}
	start, end := p.discoverWindow()
	discovered, err := p.src.DiscoverTV(start, end)
	if err != nil {
		p.logger.Warnf("[Pipeline] discover tv unavailable: %v", err)
	}

	records := make([]models.MediaRecord, 0, len(trending)+len(discovered))
	for _, t := range trending {
		records = append(records, models.FromTV(t))
	}
	for _, t := range discovered {
		records = append(records, models.FromTV(t))
	}

	records = p.prepare(records, p.cfg.TVShowsMax)
	crit := filter.NewCriteria(
		p.cfg.TVExcludedCountries,
		p.cfg.TVExcludedGenres,
		p.cfg.ExcludedKeywords,
		p.cfg.MinRating,
		p.cfg.MaxAirDate(p.now),
	)

	for _, rec := range records {
		p.processTV(rec, crit, genres)
	}
}

// prepare applies the merge-order steps shared by both kinds: optional
// de-duplication, stable sort by rating descending, truncation to max.
//
// Truncation happens before filtering, so the final count may come out
// smaller than max. That ordering is deliberate and load-bearing: the
// published set is "the best of the top max candidates", not "max
// survivors".
func (p *Pipeline) prepare(records []models.MediaRecord, max int) []models.MediaRecord {
	if p.cfg.DedupeResults {
		records = dedupe(records)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Rating > records[j].Rating
	})

	if len(records) > max {
		records = records[:max]
	}
	return records
}

// dedupe keeps the first occurrence of each id. Trending and discovery
// lists overlap; duplicates are kept unless explicitly configured away.
func dedupe(records []models.MediaRecord) []models.MediaRecord {
	seen := make(map[int]bool, len(records))
	out := records[:0:0]
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func (p *Pipeline) processMovie(rec models.MediaRecord, crit filter.Criteria, genres models.GenreDictionary) {
	if !filter.ContainsScript(rec.Title, p.script) {
		return
	}
	if p.engine.ShouldExclude(rec, crit, genres) {
		return
	}

	rating := models.RoundRating(rec.Rating)
	if rating < crit.MinRating {
		return
	}

	p.logger.Infof("[Pipeline] processing movie: %s %.1f", rec.Title, rating)

	runtime := 0
	if details, err := p.src.MovieDetails(rec.ID); err != nil {
		p.logger.Warnf("[Pipeline] details unavailable for %s: %v", rec.Title, err)
	} else {
		runtime = details.Runtime
	}

	p.render(models.PosterSpec{
		Kind:       models.KindMovie,
		ID:         rec.ID,
		Title:      rec.Title,
		GenreText:  joinGenres(rec.GenreIDs, genres),
		Year:       poster.YearText(rec.ReleaseDate),
		Rating:     rating,
		InfoText:   poster.FormatRuntime(runtime),
		CustomText: p.cfg.CustomText,
	}, rec.BackdropPath)
}

func (p *Pipeline) processTV(rec models.MediaRecord, crit filter.Criteria, genres models.GenreDictionary) {
	// TV titles are cut to a fixed width before any check, so the
	// rendered poster and the filters see the same string.
	rec.Title = poster.TruncateRunes(rec.Title, constants.TVTitleMaxRunes)

	if !filter.ContainsScript(rec.Title, p.script) {
		return
	}
	if p.engine.ShouldExclude(rec, crit, genres) {
		return
	}

	rating := models.RoundRating(rec.Rating)
	if rating < crit.MinRating {
		return
	}

	p.logger.Infof("[Pipeline] processing tv show: %s %.1f", rec.Title, rating)

	seasons := 0
	if details, err := p.src.TVDetails(rec.ID); err != nil {
		p.logger.Warnf("[Pipeline] details unavailable for %s: %v", rec.Title, err)
	} else {
		seasons = details.NumberOfSeasons
	}

	p.render(models.PosterSpec{
		Kind:       models.KindTV,
		ID:         rec.ID,
		Title:      rec.Title,
		GenreText:  joinGenres(rec.GenreIDs, genres),
		Year:       poster.YearText(rec.ReleaseDate),
		Rating:     rating,
		InfoText:   poster.SeasonsText(seasons),
		CustomText: p.cfg.CustomText,
	}, rec.BackdropPath)
}

// render downloads the backdrop and hands the finished spec to the
// compositor. Failures are reported and skipped, never escalated.
func (p *Pipeline) render(spec models.PosterSpec, backdropPath string) {
	if backdropPath == "" {
		p.logger.Warnf("[Pipeline] no backdrop image found for %s", spec.Title)
		return
	}

	data, err := p.src.DownloadImage(constants.TMDBImageBaseURL + backdropPath)
	if err != nil {
		p.logger.Warnf("[Pipeline] failed to download background for %s: %v", spec.Title, err)
		return
	}
	spec.Backdrop = data

	path, err := p.renderer.Render(spec)
	if err != nil {
		p.logger.Warnf("[Pipeline] failed to render %s: %v", spec.Title, err)
		return
	}
	p.logger.Infof("[Pipeline] image saved: %s", path)
}

// discoverWindow returns the ISO date range for discovery queries: the
// staleness window ending today.
func (p *Pipeline) discoverWindow() (string, string) {
	start := p.now.AddDate(0, 0, -p.cfg.MaxAgeDays)
	return start.Format("2006-01-02"), p.now.Format("2006-01-02")
}

// joinGenres resolves genre ids against the dictionary and joins the
// known names. Unknown ids resolve to empty and are left out.
func joinGenres(ids []int, genres models.GenreDictionary) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := genres.Resolve(id); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// sourceLookup adapts the MetadataSource to the filter engine's narrower
// lookup interface.
type sourceLookup struct {
	src MetadataSource
}

func (l sourceLookup) Keywords(kind models.MediaKind, id int) []string {
	if kind == models.KindMovie {
		return l.src.MovieKeywords(id)
	}
	return l.src.TVKeywords(id)
}

func (l sourceLookup) TVLastAirDate(id int) string {
	details, err := l.src.TVDetails(id)
	if err != nil {
		return ""
	}
	return details.LastAirDate
}
