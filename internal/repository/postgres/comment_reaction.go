package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type commentReactionRepo struct {
	db Querier
}

func newCommentReactionRepo(db Querier) CommentReaction {
	return &commentReactionRepo{
		db: db,
	}
}

func (r *commentReactionRepo) Exists(ctx context.Context, key model.CommentReactionKey) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM comment_reactions WHERE comment_id = $1 AND user_id = $2)",
		key.CommentID,
		key.UserID,
	).Scan(&exists); err != nil {
		return false, translate(err, "check comment reaction")
	}

	return exists, nil
}

func (r *commentReactionRepo) Insert(ctx context.Context, key model.CommentReactionKey) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO comment_reactions(comment_id, user_id, created_at) VALUES($1, $2, $3)",
		key.CommentID,
		key.UserID,
		time.Now(),
	)
	return translate(err, "insert comment reaction")
}

func (r *commentReactionRepo) Delete(ctx context.Context, key model.CommentReactionKey) error {
	_, err := r.db.Exec(
		ctx,
		"DELETE FROM comment_reactions WHERE comment_id = $1 AND user_id = $2",
		key.CommentID,
		key.UserID,
	)
	return translate(err, "delete comment reaction")
}

func (r *commentReactionRepo) CountByComment(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM comment_reactions WHERE comment_id = $1",
		commentID,
	).Scan(&count); err != nil {
		return 0, translate(err, "count comment reactions")
	}

	return count, nil
}

func (r *commentReactionRepo) CountByComments(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(
		ctx,
		"SELECT comment_id, COUNT(*) FROM comment_reactions WHERE comment_id = ANY($1) GROUP BY comment_id",
		commentIDs,
	)
	if err != nil {
		return nil, translate(err, "count comment reactions")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			commentID int64
			count     int64
		)
		if err := rows.Scan(&commentID, &count); err != nil {
			return nil, translate(err, "scan comment reaction count")
		}
		counts[commentID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan comment reaction counts")
	}

	return counts, nil
}

func (r *commentReactionRepo) FindLikedAmong(ctx context.Context, userID uuid.UUID, commentIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return liked, nil
	}

	rows, err := r.db.Query(
		ctx,
		"SELECT comment_id FROM comment_reactions WHERE user_id = $1 AND comment_id = ANY($2)",
		userID,
		commentIDs,
	)
	if err != nil {
		return nil, translate(err, "select liked comments")
	}
	defer rows.Close()

	for rows.Next() {
		var commentID int64
		if err := rows.Scan(&commentID); err != nil {
			return nil, translate(err, "scan liked comment")
		}
		liked[commentID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan liked comments")
	}

	return liked, nil
}
