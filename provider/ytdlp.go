package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"customtube/models"

	"github.com/lrstanley/go-ytdlp"
	log "github.com/sirupsen/logrus"
)

// YtDlp searches through the yt-dlp executable using flat extraction, so
// only search result metadata is fetched and nothing is downloaded.
type YtDlp struct {
	timeout time.Duration
}

func NewYtDlp(timeout time.Duration) *YtDlp {
	return &YtDlp{timeout: timeout}
}

type searchResult struct {
	Entries []models.RawEntry `json:"entries"`
}

func (y *YtDlp) Search(ctx context.Context, query string, count int) ([]models.RawEntry, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	target := fmt.Sprintf("ytsearch%d:%s", count, query)

	log.WithFields(log.Fields{
		"target": target,
	}).Debug("Running yt-dlp search")

	res, err := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		NoWarnings().
		Run(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w", err)
	}

	return parseSearchOutput([]byte(res.Stdout))
}

// parseSearchOutput decodes the single JSON document printed by yt-dlp -J
func parseSearchOutput(data []byte) ([]models.RawEntry, error) {
	var result searchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}
	if result.Entries == nil {
		return []models.RawEntry{}, nil
	}
	return result.Entries, nil
}

var _ Provider = (*YtDlp)(nil)
