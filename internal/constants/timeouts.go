// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Image downloads are the only calls with an explicit bound; metadata
	// calls rely on the HTTP client default.
	ImageDownloadTimeout = 10 * time.Second

	// Default timeout for TMDB metadata requests
	MetadataRequestTimeout = 10 * time.Second

	// Pause between forum mutations (deletions, uploads) to stay under
	// Reddit's rate limits.
	ForumMutationDelay = 2 * time.Second
)
