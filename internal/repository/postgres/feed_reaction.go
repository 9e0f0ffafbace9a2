package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type feedReactionRepo struct {
	db Querier
}

func newFeedReactionRepo(db Querier) FeedReaction {
	return &feedReactionRepo{
		db: db,
	}
}

func (r *feedReactionRepo) Exists(ctx context.Context, key model.FeedReactionKey) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM feed_reactions WHERE feed_id = $1 AND user_id = $2 AND reaction_type = $3)",
		key.FeedID,
		key.UserID,
		string(key.ReactionType),
	).Scan(&exists); err != nil {
		return false, translate(err, "check feed reaction")
	}

	return exists, nil
}

// Insert returns ErrDuplicate when the (feed, user, type) row already exists.
func (r *feedReactionRepo) Insert(ctx context.Context, key model.FeedReactionKey) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO feed_reactions(feed_id, user_id, reaction_type, created_at) VALUES($1, $2, $3, $4)",
		key.FeedID,
		key.UserID,
		string(key.ReactionType),
		time.Now(),
	)
	return translate(err, "insert feed reaction")
}

func (r *feedReactionRepo) Delete(ctx context.Context, key model.FeedReactionKey) error {
	_, err := r.db.Exec(
		ctx,
		"DELETE FROM feed_reactions WHERE feed_id = $1 AND user_id = $2 AND reaction_type = $3",
		key.FeedID,
		key.UserID,
		string(key.ReactionType),
	)
	return translate(err, "delete feed reaction")
}

func (r *feedReactionRepo) CountByFeed(ctx context.Context, feedID int64) ([]model.ReactionCount, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT reaction_type, COUNT(*) FROM feed_reactions WHERE feed_id = $1 GROUP BY reaction_type",
		feedID,
	)
	if err != nil {
		return nil, translate(err, "count feed reactions")
	}
	defer rows.Close()

	var counts []model.ReactionCount
	for rows.Next() {
		var (
			reactionType string
			count        int64
		)
		if err := rows.Scan(&reactionType, &count); err != nil {
			return nil, translate(err, "scan feed reaction count")
		}
		counts = append(counts, model.ReactionCount{ReactionType: model.ReactionType(reactionType), Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan feed reaction counts")
	}

	return counts, nil
}

func (r *feedReactionRepo) FindUserTypes(ctx context.Context, feedID int64, userID uuid.UUID) ([]model.ReactionType, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT reaction_type FROM feed_reactions WHERE feed_id = $1 AND user_id = $2",
		feedID,
		userID,
	)
	if err != nil {
		return nil, translate(err, "select user feed reactions")
	}
	defer rows.Close()

	var types []model.ReactionType
	for rows.Next() {
		var reactionType string
		if err := rows.Scan(&reactionType); err != nil {
			return nil, translate(err, "scan user feed reaction")
		}
		types = append(types, model.ReactionType(reactionType))
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan user feed reactions")
	}

	return types, nil
}
