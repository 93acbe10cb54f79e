package feeds

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Warm fetches every keyword with a bounded pool of workers so later feed
// requests are served from the cache. Keywords already cached are not
// fetched again. Returns the number of videos available per keyword.
func Warm(ctx context.Context, fetcher KeywordFetcher, keywords []string, limit int, maxWorkers int) map[string]int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	workerQueue := make(chan string)
	results := make(map[string]int, len(keywords))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for keyword := range workerQueue {
				videos := fetcher.Fetch(ctx, keyword, limit)

				mu.Lock()
				results[keyword] = len(videos)
				mu.Unlock()

				log.WithFields(log.Fields{
					"worker":  id,
					"keyword": keyword,
					"videos":  len(videos),
				}).Info("Warmed keyword")
			}
		}(i)
	}

	for _, keyword := range keywords {
		select {
		case <-ctx.Done():
			log.Info("Warm cancelled, stopping workers")
			close(workerQueue)
			wg.Wait()
			return results
		case workerQueue <- keyword:
		}
	}

	close(workerQueue)
	wg.Wait()

	return results
}
