package feeds_test

import (
	"testing"

	"customtube/feeds"
	"customtube/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestBanFilter(t *testing.T) {
	filter := feeds.NewBanFilter([]models.BannedChannel{{ChannelName: "BadChan"}})

	tests := []struct {
		name     string
		uploader *string
		expected bool
	}{
		{name: "banned uploader", uploader: lo.ToPtr("BadChan"), expected: false},
		{name: "other uploader", uploader: lo.ToPtr("GoodChan"), expected: true},
		{name: "different case", uploader: lo.ToPtr("badchan"), expected: true},
		{name: "surrounding whitespace", uploader: lo.ToPtr(" BadChan"), expected: true},
		{name: "no uploader", uploader: nil, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.Keep(models.Video{Id: "v", Uploader: tt.uploader})
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBanFilterKeepsOnlyAllowed(t *testing.T) {
	filter := feeds.NewBanFilter([]models.BannedChannel{{ChannelName: "BadChan"}})
	videos := []models.Video{
		{Id: "1", Uploader: lo.ToPtr("BadChan")},
		{Id: "2", Uploader: lo.ToPtr("GoodChan")},
	}

	kept := lo.Filter(videos, func(v models.Video, _ int) bool { return filter.Keep(v) })
	assert.Equal(t, []models.Video{videos[1]}, kept)
}

func TestEmptyBanFilter(t *testing.T) {
	filter := feeds.NewBanFilter(nil)
	assert.True(t, filter.Keep(models.Video{Id: "v", Uploader: lo.ToPtr("Anyone")}))
}
