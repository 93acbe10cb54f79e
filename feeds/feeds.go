package feeds

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"customtube/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultPerKeyword caps how many videos a single keyword contributes
	DefaultPerKeyword = 10

	NoKeywordsMessage = "No keywords saved"
)

// Assembler builds the feed across all saved keywords
type Assembler struct {
	subs       Subscriptions
	fetcher    KeywordFetcher
	perKeyword int

	// rand.Rand is not safe for concurrent use
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAssembler creates an Assembler. A nil rnd gets a randomly seeded source;
// pass a seeded one for reproducible ordering.
func NewAssembler(subs Subscriptions, fetcher KeywordFetcher, perKeyword int, rnd *rand.Rand) *Assembler {
	if perKeyword <= 0 {
		perKeyword = DefaultPerKeyword
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Assembler{
		subs:       subs,
		fetcher:    fetcher,
		perKeyword: perKeyword,
		rnd:        rnd,
	}
}

// Assemble fetches every keyword in order, drops banned uploaders and videos
// already contributed by an earlier keyword, then shuffles the result.
func (a *Assembler) Assemble(ctx context.Context) (*models.FeedResponse, error) {
	keywords, err := a.subs.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}

	if len(keywords) == 0 {
		return &models.FeedResponse{Videos: []models.Video{}, Message: NoKeywordsMessage}, nil
	}

	channels, err := a.subs.ListBannedChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banned channels: %w", err)
	}
	filter := NewBanFilter(channels)

	videos := []models.Video{}
	seen := make(map[string]struct{})

	for _, k := range keywords {
		fetched := a.fetcher.Fetch(ctx, k.Keyword, a.perKeyword)
		added := 0
		for _, video := range fetched {
			if !filter.Keep(video) {
				continue
			}
			if _, ok := seen[video.Id]; ok {
				continue
			}
			seen[video.Id] = struct{}{}
			videos = append(videos, video)
			added++
		}

		log.WithFields(log.Fields{
			"keyword": k.Keyword,
			"fetched": len(fetched),
			"added":   added,
		}).Debug("Collected keyword videos")
	}

	a.shuffle(videos)

	feedAssemblies.Inc()
	feedSize.Observe(float64(len(videos)))

	log.WithFields(log.Fields{
		"keywords": len(keywords),
		"banned":   len(channels),
		"videos":   len(videos),
	}).Info("Assembled feed")

	return &models.FeedResponse{Videos: videos}, nil
}

func (a *Assembler) shuffle(videos []models.Video) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rnd.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
}

// KeywordNames extracts the keyword strings in order
func KeywordNames(keywords []models.Keyword) []string {
	return lo.Map(keywords, func(k models.Keyword, _ int) string { return k.Keyword })
}
