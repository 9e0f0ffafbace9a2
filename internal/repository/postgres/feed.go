package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const feedColumns = "f.feed_id, f.user_id, f.result_id, f.caption, f.is_public, f.is_pinned, f.view_count, f.created_at, f.updated_at"

type feedRepo struct {
	db Querier
}

func newFeedRepo(db Querier) Feed {
	return &feedRepo{
		db: db,
	}
}

func scanFeed(row pgx.Row) (*model.Feed, error) {
	var (
		feed     model.Feed
		isPublic bool
	)
	if err := row.Scan(
		&feed.ID,
		&feed.UserID,
		&feed.ResultID,
		&feed.Caption,
		&isPublic,
		&feed.IsPinned,
		&feed.ViewCount,
		&feed.CreatedAt,
		&feed.UpdatedAt,
	); err != nil {
		return nil, err
	}
	feed.Visibility = model.VisibilityOf(isPublic)

	return &feed, nil
}

func collectFeeds(rows pgx.Rows) ([]*model.Feed, error) {
	defer rows.Close()

	var feeds []*model.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feeds, nil
}

func (r *feedRepo) Create(ctx context.Context, feed model.Feed) (*model.Feed, error) {
	now := time.Now()
	feed.CreatedAt = now
	feed.UpdatedAt = now
	feed.ViewCount = 0
	feed.IsPinned = false
	if feed.Visibility == "" {
		feed.Visibility = model.VisibilityPrivate
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO feeds(user_id, result_id, caption, is_public, is_pinned, view_count, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8) RETURNING feed_id`,
		feed.UserID,
		feed.ResultID,
		feed.Caption,
		feed.Visibility.IsPublic(),
		feed.IsPinned,
		feed.ViewCount,
		feed.CreatedAt,
		feed.UpdatedAt,
	).Scan(&feed.ID); err != nil {
		return nil, translate(err, "insert feed")
	}

	return &feed, nil
}

func (r *feedRepo) FindByID(ctx context.Context, id int64) (*model.Feed, error) {
	feed, err := scanFeed(r.db.QueryRow(
		ctx,
		"SELECT "+feedColumns+" FROM feeds f WHERE f.feed_id = $1 AND f.deleted_at IS NULL",
		id,
	))
	if err != nil {
		return nil, translate(err, "select feed")
	}

	return feed, nil
}

func (r *feedRepo) ExistsActive(ctx context.Context, userID uuid.UUID, resultID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM feeds WHERE user_id = $1 AND result_id = $2 AND deleted_at IS NULL)",
		userID,
		resultID,
	).Scan(&exists); err != nil {
		return false, translate(err, "check feed existence")
	}

	return exists, nil
}

func (r *feedRepo) Update(ctx context.Context, id int64, update model.FeedUpdate) (*model.Feed, error) {
	var isPublic *bool
	if update.Visibility != nil {
		v := update.Visibility.IsPublic()
		isPublic = &v
	}

	feed, err := scanFeed(r.db.QueryRow(
		ctx,
		`UPDATE feeds f SET
		caption = COALESCE($2, f.caption),
		is_public = COALESCE($3, f.is_public),
		updated_at = $4
		WHERE f.feed_id = $1 AND f.deleted_at IS NULL
		RETURNING `+feedColumns,
		id,
		update.Caption,
		isPublic,
		time.Now(),
	))
	if err != nil {
		return nil, translate(err, "update feed")
	}

	return feed, nil
}

func (r *feedRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "UPDATE feeds SET deleted_at = $2 WHERE feed_id = $1 AND deleted_at IS NULL", id, time.Now())
	if err != nil {
		return translate(err, "soft delete feed")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *feedRepo) FindPublic(ctx context.Context, cursor *int64, limit int) ([]*model.Feed, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedColumns+`
		FROM feeds f
		WHERE f.is_public = TRUE
		AND f.deleted_at IS NULL
		AND ($1::BIGINT IS NULL OR f.feed_id < $1)
		ORDER BY f.feed_id DESC
		LIMIT $2`,
		cursor,
		limit,
	)
	if err != nil {
		return nil, translate(err, "select public feeds")
	}

	feeds, err := collectFeeds(rows)
	if err != nil {
		return nil, translate(err, "scan public feeds")
	}

	return feeds, nil
}

func (r *feedRepo) FindByUser(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.Feed, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedColumns+`
		FROM feeds f
		WHERE f.user_id = $1
		AND f.deleted_at IS NULL
		AND ($2::BIGINT IS NULL OR f.feed_id < $2)
		ORDER BY f.feed_id DESC
		LIMIT $3`,
		userID,
		cursor,
		limit,
	)
	if err != nil {
		return nil, translate(err, "select user feeds")
	}

	feeds, err := collectFeeds(rows)
	if err != nil {
		return nil, translate(err, "scan user feeds")
	}

	return feeds, nil
}

func (r *feedRepo) IncrViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE feeds SET view_count = view_count + 1 WHERE feed_id = $1", id)
	return translate(err, "increment feed views")
}
