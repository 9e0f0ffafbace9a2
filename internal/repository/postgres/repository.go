package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the repositories need.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Feed interface {
	Create(ctx context.Context, feed model.Feed) (*model.Feed, error)
	FindByID(ctx context.Context, id int64) (*model.Feed, error)
	ExistsActive(ctx context.Context, userID uuid.UUID, resultID int64) (bool, error)
	Update(ctx context.Context, id int64, update model.FeedUpdate) (*model.Feed, error)
	SoftDelete(ctx context.Context, id int64) error
	FindPublic(ctx context.Context, cursor *int64, limit int) ([]*model.Feed, error)
	FindByUser(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.Feed, error)
	IncrViews(ctx context.Context, id int64) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindTopLevel(ctx context.Context, feedID int64, cursor *int64, limit int) ([]*model.Comment, error)
	FindReplies(ctx context.Context, parentIDs []int64) ([]*model.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error)
	SoftDelete(ctx context.Context, id int64) error
	CountByFeed(ctx context.Context, feedID int64) (int64, error)
}

type FeedReaction interface {
	Exists(ctx context.Context, key model.FeedReactionKey) (bool, error)
	Insert(ctx context.Context, key model.FeedReactionKey) error
	Delete(ctx context.Context, key model.FeedReactionKey) error
	CountByFeed(ctx context.Context, feedID int64) ([]model.ReactionCount, error)
	FindUserTypes(ctx context.Context, feedID int64, userID uuid.UUID) ([]model.ReactionType, error)
}

type CommentReaction interface {
	Exists(ctx context.Context, key model.CommentReactionKey) (bool, error)
	Insert(ctx context.Context, key model.CommentReactionKey) error
	Delete(ctx context.Context, key model.CommentReactionKey) error
	CountByComment(ctx context.Context, commentID int64) (int64, error)
	CountByComments(ctx context.Context, commentIDs []int64) (map[int64]int64, error)
	FindLikedAmong(ctx context.Context, userID uuid.UUID, commentIDs []int64) (map[int64]bool, error)
}

type Follow interface {
	Exists(ctx context.Context, key model.FollowKey) (bool, error)
	Insert(ctx context.Context, key model.FollowKey) error
	Delete(ctx context.Context, key model.FollowKey) error
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowings(ctx context.Context, userID uuid.UUID) (int64, error)
	FindFollowers(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error)
	FindFollowings(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error)
	FindFollowingAmong(ctx context.Context, followerID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type VibeResult interface {
	FindByID(ctx context.Context, id int64) (*model.VibeResult, error)
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type PostgresRepository struct {
	Feed
	Comment
	FeedReaction
	CommentReaction
	Follow
	VibeResult
	UserCache
}

func New(db Querier) *PostgresRepository {
	return &PostgresRepository{
		Feed:            newFeedRepo(db),
		Comment:         newCommentRepo(db),
		FeedReaction:    newFeedReactionRepo(db),
		CommentReaction: newCommentReactionRepo(db),
		Follow:          newFollowRepo(db),
		VibeResult:      newVibeResultRepo(db),
		UserCache:       newUserCacheRepo(db),
	}
}
