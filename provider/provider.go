// Package provider talks to the external video platform. Results are returned
// as untrusted raw entries and are validated by the feeds normalizer.
package provider

import (
	"context"
	"fmt"

	"customtube/models"

	"golang.org/x/time/rate"
)

const (
	KindYtDlp   = "ytdlp"
	KindYouTube = "youtube"
)

// Provider searches the video platform for up to count entries matching query
type Provider interface {
	Search(ctx context.Context, query string, count int) ([]models.RawEntry, error)
}

// Limited throttles calls to the wrapped provider
type Limited struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewLimited wraps p so that at most perSecond searches start each second.
// A non-positive rate returns p unchanged.
func NewLimited(p Provider, perSecond float64) Provider {
	if perSecond <= 0 {
		return p
	}
	return &Limited{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (l *Limited) Search(ctx context.Context, query string, count int) ([]models.RawEntry, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return l.provider.Search(ctx, query, count)
}

var _ Provider = (*Limited)(nil)
