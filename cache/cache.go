// Package cache defines the key-value store keyword search results are kept in.
package cache

import (
	"context"
	"fmt"

	"customtube/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store keeps the latest search result snapshot per keyword.
// Get returns nil without an error on a miss.
type Store interface {
	Get(ctx context.Context, keyword string) (*models.CacheEntry, error)
	Put(ctx context.Context, entry models.CacheEntry) error
}

// Memory is a process local Store bounded by an LRU. Only the newest entry
// per keyword is kept, which is the only one a lookup would return anyway.
type Memory struct {
	entries *lru.Cache[string, models.CacheEntry]
}

func NewMemory(size int) (*Memory, error) {
	entries, err := lru.New[string, models.CacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &Memory{entries: entries}, nil
}

func (m *Memory) Get(_ context.Context, keyword string) (*models.CacheEntry, error) {
	entry, ok := m.entries.Get(keyword)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *Memory) Put(_ context.Context, entry models.CacheEntry) error {
	// An older snapshot never replaces a newer one
	if current, ok := m.entries.Peek(entry.Keyword); ok && current.CreatedAt.After(entry.CreatedAt) {
		return nil
	}
	m.entries.Add(entry.Keyword, entry)
	return nil
}

func (m *Memory) Len() int {
	return m.entries.Len()
}

var _ Store = (*Memory)(nil)
