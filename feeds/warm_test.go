package feeds_test

import (
	"context"
	"sync"
	"testing"

	"customtube/feeds"
	"customtube/models"

	"github.com/stretchr/testify/assert"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *countingFetcher) Fetch(_ context.Context, keyword string, limit int) []models.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[keyword]++
	return make([]models.Video, len(keyword)%limit)
}

func TestWarm(t *testing.T) {
	fetcher := &countingFetcher{calls: map[string]int{}}
	keywords := []string{"go", "rust", "zig", "haskell", "ocaml"}

	results := feeds.Warm(context.Background(), fetcher, keywords, 10, 3)

	assert.Len(t, results, len(keywords))
	for _, keyword := range keywords {
		assert.Equal(t, 1, fetcher.calls[keyword])
		assert.Equal(t, len(keyword)%10, results[keyword])
	}
}

func TestWarmCancelled(t *testing.T) {
	fetcher := &countingFetcher{calls: map[string]int{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := feeds.Warm(ctx, fetcher, []string{"go", "rust"}, 10, 0)
	assert.LessOrEqual(t, len(results), 2)
}
