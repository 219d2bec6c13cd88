package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"kinotrend/internal/cache"
	"kinotrend/internal/config"
	"kinotrend/internal/constants"
	"kinotrend/internal/database"
	"kinotrend/internal/poster"
	"kinotrend/internal/services"
	"kinotrend/pkg/logger"
)

var (
	Logger      logger.Logger
	Config      *config.Config
	DB          database.Database
	tmdbService *services.TMDB
	renderer    *poster.Renderer
)

func InitializeLogger() {
	Logger = logger.New()

	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = constants.DefaultLogLevel
	}

	switch logLevel {
	case "debug", "info", "warn", "warning", "error":
		// Valid log levels
	default:
		Logger.Warnf("[App] unknown log level '%s', defaulting to info", os.Getenv("LOG_LEVEL"))
	}
}

func InitializeConfig() {
	var err error
	Config, err = config.Load()
	if err != nil {
		Logger.Fatalf("failed to load configuration: %v", err)
	}
}

func InitializeDatabase() {
	dbPath := filepath.Join(Config.DatabaseDir, "data.db")
	ttl := time.Duration(constants.DefaultCacheTTL) * time.Hour

	var err error
	DB, err = database.NewBolt(dbPath, ttl)
	if err != nil {
		Logger.Fatalf("failed to initialize database: %v", err)
	}

	Logger.Infof("[App] BoltHold database initialized successfully")
}

func InitializeServices() {
	tmdbMemoryCache := cache.New(constants.DefaultCacheSize, time.Duration(constants.DefaultCacheTTL)*time.Hour)

	tmdbService = services.NewTMDB(Config.TMDBToken, Config.Language, Config.ShortLanguage, tmdbMemoryCache)
	tmdbService.SetDB(DB)

	Logger.Infof("[App] services initialized successfully")
}

func InitializeRenderer() {
	assets, err := poster.LoadAssets(Config.AssetsDir, Logger)
	if err != nil {
		Logger.Fatalf("failed to load poster assets: %v", err)
	}

	renderer, err = poster.NewRenderer(assets, tmdbService, Config.OutputDir, Logger)
	if err != nil {
		Logger.Fatalf("failed to initialize renderer: %v", err)
	}
}
