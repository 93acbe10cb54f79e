package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"customtube/db"
	"customtube/models"
	"customtube/server"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	keywords []string
	banned   []string
	err      error
}

func (s *memoryStore) ListKeywords(context.Context) ([]models.Keyword, error) {
	if s.err != nil {
		return nil, s.err
	}
	return lo.Map(s.keywords, func(k string, _ int) models.Keyword { return models.Keyword{Keyword: k} }), nil
}

func (s *memoryStore) AddKeyword(_ context.Context, keyword string) error {
	if s.err != nil {
		return s.err
	}
	if lo.Contains(s.keywords, keyword) {
		return db.ErrDuplicate
	}
	s.keywords = append(s.keywords, keyword)
	return nil
}

func (s *memoryStore) DeleteKeyword(_ context.Context, keyword string) error {
	if !lo.Contains(s.keywords, keyword) {
		return db.ErrNotFound
	}
	s.keywords = lo.Without(s.keywords, keyword)
	return nil
}

func (s *memoryStore) ListBannedChannels(context.Context) ([]models.BannedChannel, error) {
	return lo.Map(s.banned, func(c string, _ int) models.BannedChannel { return models.BannedChannel{ChannelName: c} }), nil
}

func (s *memoryStore) BanChannel(_ context.Context, channelName string) error {
	if lo.Contains(s.banned, channelName) {
		return db.ErrDuplicate
	}
	s.banned = append(s.banned, channelName)
	return nil
}

type staticFeed struct {
	response *models.FeedResponse
	err      error
}

func (f *staticFeed) Assemble(context.Context) (*models.FeedResponse, error) {
	return f.response, f.err
}

func newApp(store *memoryStore, feed *staticFeed) *fiber.App {
	return server.Server(&server.ServerConfig{Store: store, Feed: feed})
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestKeywordEndpoints(t *testing.T) {
	store := &memoryStore{}
	app := newApp(store, &staticFeed{})

	status, body := do(t, app, http.MethodPost, "/api/keywords", `{"keyword": "golang"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"message": "Keyword added", "keyword": "golang"}`, body)

	status, _ = do(t, app, http.MethodPost, "/api/keywords", `{"keyword": "rust lang"}`)
	assert.Equal(t, http.StatusCreated, status)

	status, body = do(t, app, http.MethodGet, "/api/keywords", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["rust lang", "golang"]`, body)

	status, body = do(t, app, http.MethodDelete, "/api/keywords/rust%20lang", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message": "Keyword deleted"}`, body)
	assert.Equal(t, []string{"golang"}, store.keywords)

	status, body = do(t, app, http.MethodDelete, "/api/keywords/zig", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error": "Keyword not found"}`, body)
}

func TestAddKeywordValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		expected string
	}{
		{name: "missing keyword", body: `{}`, status: http.StatusBadRequest, expected: `{"error": "No keyword provided"}`},
		{name: "empty keyword", body: `{"keyword": ""}`, status: http.StatusBadRequest, expected: `{"error": "No keyword provided"}`},
		{name: "blank keyword", body: `{"keyword": "   "}`, status: http.StatusBadRequest, expected: `{"error": "No keyword provided"}`},
		{name: "malformed body", body: `{"keyword":`, status: http.StatusBadRequest, expected: `{"error": "No keyword provided"}`},
		{name: "duplicate", body: `{"keyword": "golang"}`, status: http.StatusBadRequest, expected: `{"error": "Keyword already exists"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{keywords: []string{"golang"}}
			app := newApp(store, &staticFeed{})

			status, body := do(t, app, http.MethodPost, "/api/keywords", tt.body)
			assert.Equal(t, tt.status, status)
			assert.JSONEq(t, tt.expected, body)
			assert.Equal(t, []string{"golang"}, store.keywords)
		})
	}
}

func TestBanChannelEndpoint(t *testing.T) {
	store := &memoryStore{}
	app := newApp(store, &staticFeed{})

	status, body := do(t, app, http.MethodPost, "/api/ban_channel", `{"channel_name": "BadChan"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"message": "Banned channel: BadChan"}`, body)

	status, body = do(t, app, http.MethodPost, "/api/ban_channel", `{"channel_name": "BadChan"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message": "Channel already banned"}`, body)

	status, body = do(t, app, http.MethodPost, "/api/ban_channel", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error": "No channel name provided"}`, body)

	status, body = do(t, app, http.MethodGet, "/api/banned_channels", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["BadChan"]`, body)
}

func TestFeedEndpoint(t *testing.T) {
	feed := &staticFeed{response: &models.FeedResponse{
		Videos: []models.Video{{Id: "v1", Url: "https://www.youtube.com/watch?v=v1", Uploader: lo.ToPtr("GoodChan")}},
	}}
	app := newApp(&memoryStore{}, feed)

	status, body := do(t, app, http.MethodGet, "/api/feed", "")
	assert.Equal(t, http.StatusOK, status)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.NotContains(t, decoded, "message")

	videos := decoded["videos"].([]any)
	require.Len(t, videos, 1)
	video := videos[0].(map[string]any)
	assert.Equal(t, "v1", video["id"])
	assert.Equal(t, "GoodChan", video["uploader"])
	assert.Contains(t, video, "thumbnail")
	assert.Nil(t, video["thumbnail"])
	assert.Contains(t, video, "upload_date")
}

func TestFeedEndpointWithoutKeywords(t *testing.T) {
	feed := &staticFeed{response: &models.FeedResponse{Videos: []models.Video{}, Message: "No keywords saved"}}
	app := newApp(&memoryStore{}, feed)

	status, body := do(t, app, http.MethodGet, "/api/feed", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"videos": [], "message": "No keywords saved"}`, body)
}

func TestFeedEndpointError(t *testing.T) {
	app := newApp(&memoryStore{}, &staticFeed{err: errors.New("database is locked")})

	status, body := do(t, app, http.MethodGet, "/api/feed", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error": "Error assembling feed"}`, body)
}

func TestMetricsAndStaticFiles(t *testing.T) {
	app := newApp(&memoryStore{}, &staticFeed{})

	status, _ := do(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "CustomTube")
}
