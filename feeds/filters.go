package feeds

import (
	"customtube/models"

	"github.com/samber/lo"
)

// BanFilter drops videos from banned uploaders. Names match exactly and are
// case sensitive. Videos without an uploader are always kept.
type BanFilter struct {
	banned map[string]struct{}
}

func NewBanFilter(channels []models.BannedChannel) *BanFilter {
	return &BanFilter{
		banned: lo.Associate(channels, func(c models.BannedChannel) (string, struct{}) {
			return c.ChannelName, struct{}{}
		}),
	}
}

func (f *BanFilter) Keep(video models.Video) bool {
	if video.Uploader == nil {
		return true
	}
	_, banned := f.banned[*video.Uploader]
	return !banned
}

var _ VideoFilter = (*BanFilter)(nil)
