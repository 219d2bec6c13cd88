package main

import (
	"kinotrend/internal/config"
	"kinotrend/internal/publisher"
	"kinotrend/internal/services"
	"kinotrend/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.RequireReddit(); err != nil {
		log.Fatalf("missing Reddit configuration: %v", err)
	}

	client := services.NewReddit(
		cfg.RedditClientID,
		cfg.RedditClientSecret,
		cfg.RedditUsername,
		cfg.RedditPassword,
		cfg.RedditUserAgent,
	)

	pub := publisher.New(client, cfg.SubredditName, cfg.OutputDir, log)
	if err := pub.Run(); err != nil {
		log.Fatalf("publish failed: %v", err)
	}

	log.Infof("[Publisher] all done")
}
