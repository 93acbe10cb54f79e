package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customtube/models"

	log "github.com/sirupsen/logrus"
)

// LatestCacheEntry returns the newest cache row for keyword, or nil if there is none
func (db *DB) LatestCacheEntry(ctx context.Context, keyword string) (*models.CacheEntry, error) {
	sb := db.flavor.NewSelectBuilder()
	sb.Select("results_json", "created_at").
		From("search_cache").
		Where(sb.Equal("keyword", keyword)).
		OrderBy("created_at DESC", "id DESC").
		Limit(1)

	query, args := sb.Build()

	var payload string
	var createdAt int64
	err := db.db.QueryRowContext(ctx, query, args...).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return &models.CacheEntry{
		Keyword:   keyword,
		Payload:   []byte(payload),
		CreatedAt: time.Unix(createdAt, 0),
	}, nil
}

// InsertCacheEntry appends a cache row. Earlier rows for the same keyword are kept.
func (db *DB) InsertCacheEntry(ctx context.Context, entry models.CacheEntry) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = db.now()
	}

	log.WithFields(log.Fields{
		"keyword": entry.Keyword,
		"bytes":   len(entry.Payload),
	}).Info("Caching search result")

	ib := db.flavor.NewInsertBuilder()
	ib.InsertInto("search_cache").
		Cols("keyword", "results_json", "created_at").
		Values(entry.Keyword, string(entry.Payload), createdAt.Unix())

	query, args := ib.Build()
	if _, err := db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}

// Get and Put let the database act as a cache.Store

func (db *DB) Get(ctx context.Context, keyword string) (*models.CacheEntry, error) {
	return db.LatestCacheEntry(ctx, keyword)
}

func (db *DB) Put(ctx context.Context, entry models.CacheEntry) error {
	return db.InsertCacheEntry(ctx, entry)
}
