package provider

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"customtube/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// The API caps maxResults at 50
const youtubeMaxResults = 50

// YouTube searches with the YouTube Data API v3
type YouTube struct {
	service *youtube.Service
}

func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: API key required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: failed to create service: %w", err)
	}
	return &YouTube{service: service}, nil
}

func (y *YouTube) Search(ctx context.Context, query string, count int) ([]models.RawEntry, error) {
	response, err := y.service.Search.
		List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(min(count, youtubeMaxResults))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	entries := make([]models.RawEntry, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		entry := models.RawEntry{Id: lo.ToPtr(item.Id.VideoId)}
		if item.Snippet != nil {
			entry.Title = lo.ToPtr(item.Snippet.Title)
			entry.Uploader = lo.ToPtr(item.Snippet.ChannelTitle)
			entry.Thumbnails = thumbnailCandidates(item.Snippet.Thumbnails)
			if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				entry.UploadDate = lo.ToPtr(published.UTC().Format("20060102"))
			}
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	if err := y.addDetails(ctx, entries); err != nil {
		// Search results are still usable without durations and view counts
		log.WithFields(log.Fields{
			"query": query,
			"error": err,
		}).Warn("Failed to fetch video details")
	}

	return entries, nil
}

// addDetails fills in duration and view count from videos.list
func (y *YouTube) addDetails(ctx context.Context, entries []models.RawEntry) error {
	ids := lo.Map(entries, func(e models.RawEntry, _ int) string { return *e.Id })

	response, err := y.service.Videos.
		List([]string{"contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[*e.Id] = i
	}

	for _, item := range response.Items {
		i, ok := index[item.Id]
		if !ok {
			continue
		}
		if item.ContentDetails != nil {
			if seconds, ok := parseISODuration(item.ContentDetails.Duration); ok {
				entries[i].Duration = lo.ToPtr(seconds)
			}
		}
		if item.Statistics != nil {
			entries[i].ViewCount = lo.ToPtr(int64(item.Statistics.ViewCount))
		}
	}
	return nil
}

// thumbnailCandidates lists the available thumbnails ordered by ascending resolution
func thumbnailCandidates(details *youtube.ThumbnailDetails) []models.Thumbnail {
	if details == nil {
		return nil
	}

	var thumbnails []models.Thumbnail
	for _, t := range []*youtube.Thumbnail{details.Default, details.Medium, details.High, details.Standard, details.Maxres} {
		if t == nil || t.Url == "" {
			continue
		}
		thumbnails = append(thumbnails, models.Thumbnail{Url: t.Url, Width: int(t.Width), Height: int(t.Height)})
	}
	return thumbnails
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseISODuration converts durations like PT1H2M3S to seconds. Live streams
// report P0D, which is treated as unknown.
func parseISODuration(value string) (float64, bool) {
	m := isoDuration.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}

	var total float64
	for i, unit := range []float64{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, false
		}
		total += n * unit
	}

	if total == 0 {
		return 0, false
	}
	return total, true
}

var _ Provider = (*YouTube)(nil)
