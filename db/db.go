package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customtube/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

var (
	ErrDuplicate = errors.New("already exists")
	ErrNotFound  = errors.New("not found")
)

const writeTimeout = 30 * time.Second

// DB handles all database operations with a shared connection pool
type DB struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
	now    func() time.Time
}

// Open connects to the configured backend. Migrations are not run here.
func Open(opts Options) (*DB, error) {
	conn, err := connection(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &DB{db: conn, flavor: opts.flavor(), now: time.Now}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Keywords

// ListKeywords returns all saved keywords in creation order
func (db *DB) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	sb := db.flavor.NewSelectBuilder()
	sb.Select("id", "keyword", "created_at").From("keywords").OrderBy("id").Asc()

	query, args := sb.Build()
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	keywords := []models.Keyword{}
	for rows.Next() {
		var k models.Keyword
		var createdAt int64
		if err := rows.Scan(&k.Id, &k.Keyword, &createdAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		k.CreatedAt = time.Unix(createdAt, 0)
		keywords = append(keywords, k)
	}

	return keywords, rows.Err()
}

// AddKeyword saves a new keyword. Returns ErrDuplicate if it is already saved.
func (db *DB) AddKeyword(ctx context.Context, keyword string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	log.WithFields(log.Fields{
		"keyword": keyword,
	}).Info("Adding keyword")

	ib := db.flavor.NewInsertBuilder()
	ib.InsertInto("keywords").Cols("keyword", "created_at").Values(keyword, db.now().Unix())
	ib.SQL("ON CONFLICT DO NOTHING")

	return db.insertUnique(ctx, ib)
}

// DeleteKeyword removes a keyword. Returns ErrNotFound if it was never saved.
func (db *DB) DeleteKeyword(ctx context.Context, keyword string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	log.WithFields(log.Fields{
		"keyword": keyword,
	}).Info("Deleting keyword")

	del := db.flavor.NewDeleteBuilder()
	del.DeleteFrom("keywords").Where(del.Equal("keyword", keyword))

	query, args := del.Build()
	res, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Banned channels

func (db *DB) ListBannedChannels(ctx context.Context) ([]models.BannedChannel, error) {
	sb := db.flavor.NewSelectBuilder()
	sb.Select("id", "channel_name", "created_at").From("banned_channels").OrderBy("id").Asc()

	query, args := sb.Build()
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	channels := []models.BannedChannel{}
	for rows.Next() {
		var c models.BannedChannel
		var createdAt int64
		if err := rows.Scan(&c.Id, &c.ChannelName, &createdAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		channels = append(channels, c)
	}

	return channels, rows.Err()
}

// BanChannel adds an uploader name to the ban list. Returns ErrDuplicate if
// the channel is already banned.
func (db *DB) BanChannel(ctx context.Context, channelName string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	log.WithFields(log.Fields{
		"channel": channelName,
	}).Info("Banning channel")

	ib := db.flavor.NewInsertBuilder()
	ib.InsertInto("banned_channels").Cols("channel_name", "created_at").Values(channelName, db.now().Unix())
	ib.SQL("ON CONFLICT DO NOTHING")

	return db.insertUnique(ctx, ib)
}

func (db *DB) insertUnique(ctx context.Context, ib *sqlbuilder.InsertBuilder) error {
	query, args := ib.Build()
	res, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}
