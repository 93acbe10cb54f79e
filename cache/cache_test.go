package cache_test

import (
	"context"
	"testing"
	"time"

	"customtube/cache"
	"customtube/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetPut(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewMemory(8)
	require.NoError(t, err)

	entry, err := store.Get(ctx, "golang")
	require.NoError(t, err)
	assert.Nil(t, entry)

	now := time.Now()
	require.NoError(t, store.Put(ctx, models.CacheEntry{Keyword: "golang", Payload: []byte(`["a"]`), CreatedAt: now}))
	require.NoError(t, store.Put(ctx, models.CacheEntry{Keyword: "golang", Payload: []byte(`["b"]`), CreatedAt: now.Add(time.Second)}))

	entry, err = store.Get(ctx, "golang")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, `["b"]`, string(entry.Payload))

	// Older snapshot is ignored
	require.NoError(t, store.Put(ctx, models.CacheEntry{Keyword: "golang", Payload: []byte(`["old"]`), CreatedAt: now.Add(-time.Hour)}))
	entry, err = store.Get(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, `["b"]`, string(entry.Payload))
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewMemory(2)
	require.NoError(t, err)

	for _, keyword := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(ctx, models.CacheEntry{Keyword: keyword, Payload: []byte(`[]`), CreatedAt: time.Now()}))
	}

	assert.Equal(t, 2, store.Len())

	entry, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestNewMemoryRejectsInvalidSize(t *testing.T) {
	_, err := cache.NewMemory(0)
	assert.Error(t, err)
}
