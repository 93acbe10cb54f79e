package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Tidy removes cache rows that have been superseded by a newer row for the
// same keyword. The row the feed would read is never touched.
func (db *DB) Tidy(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	del := db.flavor.NewDeleteBuilder()
	del.DeleteFrom("search_cache").Where(`EXISTS (
		SELECT 1 FROM search_cache AS newer
		WHERE newer.keyword = search_cache.keyword
		AND (newer.created_at > search_cache.created_at
			OR (newer.created_at = search_cache.created_at AND newer.id > search_cache.id))
	)`)

	query, args := del.Build()
	log.WithFields(log.Fields{
		"sql": query,
	}).Debug("Tidying database")

	res, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("tidy error: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("tidy error: %w", err)
	}

	log.WithFields(log.Fields{
		"removed": removed,
	}).Info("Tidied search cache")

	return removed, nil
}
