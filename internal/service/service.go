package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/pkg/pagination"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageBroker is the notification sink and the source of user updates.
// *rabbitmq.MQConn satisfies it.
type MessageBroker interface {
	Publish(ctx context.Context, queue string, msg interface{}) error
	Consume(queue string) (<-chan amqp.Delivery, error)
}

// A zero viewer id (uuid.Nil) means an anonymous caller throughout.

type Feed interface {
	Create(ctx context.Context, ownerID uuid.UUID, resultID int64, caption *string, visibility *model.Visibility) (*dto.FeedResponse, error)
	Update(ctx context.Context, feedID int64, actorID uuid.UUID, update model.FeedUpdate) (*dto.FeedResponse, error)
	Delete(ctx context.Context, feedID int64, actorID uuid.UUID) error
	GetDetail(ctx context.Context, feedID int64, viewerID uuid.UUID) (*dto.FeedResponse, error)
	GetTimeline(ctx context.Context, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error)
	GetUserFeeds(ctx context.Context, ownerID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error)
	ToggleReaction(ctx context.Context, feedID int64, actorID uuid.UUID, reactionType model.ReactionType) (*dto.ToggleResponse, error)
}

type Comment interface {
	Create(ctx context.Context, feedID int64, authorID uuid.UUID, content string, parentCommentID *int64) (*dto.CommentResponse, error)
	List(ctx context.Context, feedID int64, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.CommentResponse], error)
	Update(ctx context.Context, commentID int64, actorID uuid.UUID, content string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, commentID int64, actorID uuid.UUID) error
	ToggleLike(ctx context.Context, commentID int64, actorID uuid.UUID) (*dto.ToggleResponse, error)
}

type Follow interface {
	Toggle(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (*dto.ToggleResponse, error)
	Status(ctx context.Context, viewerID uuid.UUID, targetID uuid.UUID) (*dto.FollowStatusResponse, error)
	Followers(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error)
	Followings(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error)
}

type UserCache interface {
	CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error)
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type VibeResult interface {
	FindByID(ctx context.Context, id int64) (*model.VibeResult, error)
}

type Service struct {
	Feed
	Comment
	Follow
	UserCache
	VibeResult
	userCache *userCacheService
}

func New(logger *zap.Logger, repo *repository.Repository, broker MessageBroker, m *metrics.Metrics) *Service {
	userCache := newUserCacheService(logger, repo, broker)
	vibeResults := newVibeResultService(logger, repo)

	return &Service{
		Feed:       newFeedService(logger, repo, broker, m, userCache, vibeResults),
		Comment:    newCommentService(logger, repo, broker, m, userCache),
		Follow:     newFollowService(logger, repo, broker, m, userCache),
		UserCache:  userCache,
		VibeResult: vibeResults,
		userCache:  userCache,
	}
}

// StartConsumeAll runs every queue consumer in its own goroutine.
func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.userCache.consumeUserUpdates(ctx)
}

// publish hands an event to the broker without waiting for delivery. A failed
// publish never fails the mutation that caused it.
func publish(ctx context.Context, logger *zap.Logger, broker MessageBroker, queue string, msg interface{}) {
	if err := broker.Publish(ctx, queue, msg); err != nil {
		logger.Sugar().Errorf("failed to publish message to queue(%s): %s", queue, err.Error())
	}
}

func cursorID(logger *zap.Logger, req pagination.Request) (*int64, error) {
	cursor, err := req.CursorID()
	if err != nil {
		logger.Sugar().Debugf("rejected cursor(%s): %s", req.Cursor, err.Error())
		return nil, ErrInvalidParameter
	}
	return cursor, nil
}
