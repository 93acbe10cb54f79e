// Package feeds assembles the video feed from saved keywords
package feeds

import (
	"context"

	"customtube/models"
)

// Subscriptions is the read side of the keyword and ban configuration
type Subscriptions interface {
	// ListKeywords returns saved keywords in creation order
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
	ListBannedChannels(ctx context.Context) ([]models.BannedChannel, error)
}

// KeywordFetcher returns up to limit normalized videos for one keyword.
// Failures are absorbed and show up as an empty result.
type KeywordFetcher interface {
	Fetch(ctx context.Context, keyword string, limit int) []models.Video
}

// VideoFilter decides whether a video may appear in the feed
type VideoFilter interface {
	Keep(video models.Video) bool
}
