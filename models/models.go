package models

import "time"

// Video is the canonical record handed to feed consumers. Nullable fields are
// pointers so they serialize as null when the provider did not supply them.
type Video struct {
	Id         string   `json:"id"`
	Title      *string  `json:"title"`
	Thumbnail  *string  `json:"thumbnail"`
	Url        string   `json:"url"`
	Duration   *float64 `json:"duration"`
	ViewCount  *int64   `json:"view_count"`
	Uploader   *string  `json:"uploader"`
	UploadDate *string  `json:"upload_date"`
}

// Thumbnail candidate as reported by the search provider
type Thumbnail struct {
	Url    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// RawEntry is one untrusted search result. Every field is optional.
type RawEntry struct {
	Id         *string     `json:"id"`
	Title      *string     `json:"title"`
	Thumbnail  *string     `json:"thumbnail"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Url        *string     `json:"url"`
	Duration   *float64    `json:"duration"`
	ViewCount  *int64      `json:"view_count"`
	Uploader   *string     `json:"uploader"`
	UploadDate *string     `json:"upload_date"`
}

// CacheEntry is a stored snapshot of one keyword's fetch result
type CacheEntry struct {
	Keyword   string
	Payload   []byte
	CreatedAt time.Time
}

type Keyword struct {
	Id        int64     `json:"-"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"createdAt"`
}

type BannedChannel struct {
	Id          int64     `json:"-"`
	ChannelName string    `json:"channelName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type FeedResponse struct {
	Videos  []Video `json:"videos"`
	Message string  `json:"message,omitempty"`
}
