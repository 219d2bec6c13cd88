package main

import (
	"time"

	"kinotrend/internal/pipeline"
)

func main() {
	InitializeLogger()
	InitializeConfig()
	InitializeDatabase()
	defer DB.Close()

	InitializeServices()
	InitializeRenderer()

	p := pipeline.New(Config, tmdbService, renderer, Logger, time.Now())
	if err := p.Run(); err != nil {
		Logger.Fatalf("run failed: %v", err)
	}

	Logger.Infof("[App] run completed, posters written to %s", Config.OutputDir)
}
