package feeds

import (
	"context"
	"encoding/json"
	"time"

	"customtube/cache"
	"customtube/models"
	"customtube/provider"

	log "github.com/sirupsen/logrus"
)

// Fetcher serves keyword searches from the cache and only calls the search
// provider on a miss.
type Fetcher struct {
	provider provider.Provider
	cache    cache.Store

	// Entries older than maxAge count as a miss. Zero keeps entries forever.
	maxAge time.Duration
	now    func() time.Time
}

func NewFetcher(p provider.Provider, store cache.Store, maxAge time.Duration) *Fetcher {
	return &Fetcher{
		provider: p,
		cache:    store,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Fetch returns at most limit videos for keyword. A failed provider call
// yields an empty result and writes nothing to the cache.
func (f *Fetcher) Fetch(ctx context.Context, keyword string, limit int) []models.Video {
	if videos, ok := f.cached(ctx, keyword); ok {
		cacheHits.Inc()
		if len(videos) > limit {
			videos = videos[:limit]
		}
		return videos
	}

	cacheMisses.Inc()
	log.WithFields(log.Fields{
		"keyword": keyword,
		"limit":   limit,
	}).Info("Fetching fresh videos")

	// Over-fetch to make up for short-form entries that get dropped
	entries, err := f.provider.Search(ctx, keyword, limit*2)
	if err != nil {
		providerErrors.Inc()
		log.WithFields(log.Fields{
			"keyword": keyword,
			"error":   err,
		}).Error("Error fetching videos")
		return []models.Video{}
	}

	videos := make([]models.Video, 0, limit)
	for _, entry := range entries {
		video, ok := Normalize(entry)
		if !ok {
			continue
		}
		videos = append(videos, video)
		if len(videos) >= limit {
			break
		}
	}

	if len(videos) > 0 {
		f.store(ctx, keyword, videos)
	}

	return videos
}

func (f *Fetcher) cached(ctx context.Context, keyword string) ([]models.Video, bool) {
	entry, err := f.cache.Get(ctx, keyword)
	if err != nil {
		log.WithFields(log.Fields{
			"keyword": keyword,
			"error":   err,
		}).Error("Error reading search cache")
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	if f.maxAge > 0 && f.now().Sub(entry.CreatedAt) > f.maxAge {
		log.WithFields(log.Fields{
			"keyword":   keyword,
			"createdAt": entry.CreatedAt.Format(time.RFC3339),
		}).Info("Cached result is stale")
		return nil, false
	}

	var videos []models.Video
	if err := json.Unmarshal(entry.Payload, &videos); err != nil {
		log.WithFields(log.Fields{
			"keyword": keyword,
			"error":   err,
		}).Warn("Discarding unreadable cache entry")
		return nil, false
	}
	if videos == nil {
		videos = []models.Video{}
	}

	log.WithFields(log.Fields{
		"keyword": keyword,
		"count":   len(videos),
	}).Debug("Serving videos from cache")

	return videos, true
}

func (f *Fetcher) store(ctx context.Context, keyword string, videos []models.Video) {
	payload, err := json.Marshal(videos)
	if err != nil {
		cacheWriteErrors.Inc()
		log.WithFields(log.Fields{
			"keyword": keyword,
			"error":   err,
		}).Error("Error encoding videos for cache")
		return
	}

	err = f.cache.Put(ctx, models.CacheEntry{
		Keyword:   keyword,
		Payload:   payload,
		CreatedAt: f.now(),
	})
	if err != nil {
		cacheWriteErrors.Inc()
		log.WithFields(log.Fields{
			"keyword": keyword,
			"error":   err,
		}).Error("Error writing search cache")
	}
}

var _ KeywordFetcher = (*Fetcher)(nil)
