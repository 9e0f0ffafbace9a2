package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5"
)

const commentColumns = "c.comment_id, c.feed_id, c.user_id, c.parent_comment_id, c.content, c.is_hidden, c.created_at"

type commentRepo struct {
	db Querier
}

func newCommentRepo(db Querier) Comment {
	return &commentRepo{
		db: db,
	}
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.FeedID,
		&comment.UserID,
		&comment.ParentCommentID,
		&comment.Content,
		&comment.IsHidden,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func collectComments(rows pgx.Rows) ([]*model.Comment, error) {
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.CreatedAt = time.Now()
	comment.IsHidden = false
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO feed_comments(feed_id, user_id, parent_comment_id, content, is_hidden, created_at)
		VALUES($1, $2, $3, $4, $5, $6) RETURNING comment_id`,
		comment.FeedID,
		comment.UserID,
		comment.ParentCommentID,
		comment.Content,
		comment.IsHidden,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return nil, translate(err, "insert comment")
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(
		ctx,
		"SELECT "+commentColumns+" FROM feed_comments c WHERE c.comment_id = $1 AND c.deleted_at IS NULL",
		id,
	))
	if err != nil {
		return nil, translate(err, "select comment")
	}

	return comment, nil
}

func (r *commentRepo) FindTopLevel(ctx context.Context, feedID int64, cursor *int64, limit int) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+`
		FROM feed_comments c
		WHERE c.feed_id = $1
		AND c.parent_comment_id IS NULL
		AND c.deleted_at IS NULL
		AND ($2::BIGINT IS NULL OR c.comment_id < $2)
		ORDER BY c.comment_id DESC
		LIMIT $3`,
		feedID,
		cursor,
		limit,
	)
	if err != nil {
		return nil, translate(err, "select top level comments")
	}

	comments, err := collectComments(rows)
	if err != nil {
		return nil, translate(err, "scan top level comments")
	}

	return comments, nil
}

func (r *commentRepo) FindReplies(ctx context.Context, parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+`
		FROM feed_comments c
		WHERE c.parent_comment_id = ANY($1)
		AND c.deleted_at IS NULL
		ORDER BY c.comment_id ASC`,
		parentIDs,
	)
	if err != nil {
		return nil, translate(err, "select comment replies")
	}

	comments, err := collectComments(rows)
	if err != nil {
		return nil, translate(err, "scan comment replies")
	}

	return comments, nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(
		ctx,
		`UPDATE feed_comments c SET content = $2
		WHERE c.comment_id = $1 AND c.deleted_at IS NULL
		RETURNING `+commentColumns,
		id,
		content,
	))
	if err != nil {
		return nil, translate(err, "update comment")
	}

	return comment, nil
}

func (r *commentRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "UPDATE feed_comments SET deleted_at = $2 WHERE comment_id = $1 AND deleted_at IS NULL", id, time.Now())
	if err != nil {
		return translate(err, "soft delete comment")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *commentRepo) CountByFeed(ctx context.Context, feedID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM feed_comments WHERE feed_id = $1 AND deleted_at IS NULL",
		feedID,
	).Scan(&count); err != nil {
		return 0, translate(err, "count feed comments")
	}

	return count, nil
}
