package feeds

import (
	"fmt"
	"strings"

	"customtube/models"
)

const (
	// Anything shorter is treated as short-form content
	minDurationSeconds = 60

	shortsPathMarker = "/shorts/"
	watchURLFormat   = "https://www.youtube.com/watch?v=%s"
)

// WatchURL is the canonical watch page for a video id
func WatchURL(id string) string {
	return fmt.Sprintf(watchURLFormat, id)
}

// Normalize converts one raw provider entry into a Video. The second return
// value is false when the entry is dropped: short-form content, or an entry
// without an id, which would have no identity in the feed.
func Normalize(entry models.RawEntry) (models.Video, bool) {
	if entry.Duration != nil && *entry.Duration < minDurationSeconds {
		return models.Video{}, false
	}

	if entry.Url != nil && strings.Contains(*entry.Url, shortsPathMarker) {
		return models.Video{}, false
	}

	if entry.Id == nil || *entry.Id == "" {
		return models.Video{}, false
	}

	video := models.Video{
		Id:         *entry.Id,
		Title:      entry.Title,
		Thumbnail:  bestThumbnail(entry),
		Duration:   entry.Duration,
		ViewCount:  entry.ViewCount,
		Uploader:   entry.Uploader,
		UploadDate: entry.UploadDate,
	}

	if entry.Url != nil && *entry.Url != "" {
		video.Url = *entry.Url
	} else {
		video.Url = WatchURL(*entry.Id)
	}

	return video, true
}

// bestThumbnail prefers the direct thumbnail, then the last candidate.
// Providers list candidates by ascending resolution.
func bestThumbnail(entry models.RawEntry) *string {
	if entry.Thumbnail != nil && *entry.Thumbnail != "" {
		return entry.Thumbnail
	}
	if len(entry.Thumbnails) == 0 {
		return nil
	}
	last := entry.Thumbnails[len(entry.Thumbnails)-1].Url
	if last == "" {
		return nil
	}
	return &last
}
