package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type feedService struct {
	logger      *zap.Logger
	repo        *repository.Repository
	broker      MessageBroker
	metrics     *metrics.Metrics
	users       *userCacheService
	vibeResults *vibeResultService
	// viewsDone is signalled after each background view increment. Tests use it.
	viewsDone func()
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, broker MessageBroker, m *metrics.Metrics, users *userCacheService, vibeResults *vibeResultService) *feedService {
	return &feedService{
		logger:      logger,
		repo:        repo,
		broker:      broker,
		metrics:     m,
		users:       users,
		vibeResults: vibeResults,
		viewsDone:   func() {},
	}
}

func feedCursor(feed *model.Feed) string {
	return pagination.Int64Cursor(feed.ID)
}

func (s *feedService) Create(ctx context.Context, ownerID uuid.UUID, resultID int64, caption *string, visibility *model.Visibility) (*dto.FeedResponse, error) {
	if _, err := s.vibeResults.FindByID(ctx, resultID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Postgres.Feed.ExistsActive(ctx, ownerID, resultID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check feed existence for user(%s) and result(%d): %s", ownerID.String(), resultID, err.Error())
		return nil, ErrInternal
	}
	if exists {
		return nil, ErrFeedAlreadyExists
	}

	feed := model.Feed{
		UserID:     ownerID,
		ResultID:   resultID,
		Caption:    caption,
		Visibility: model.VisibilityPrivate,
	}
	if visibility != nil {
		feed.Visibility = *visibility
	}

	created, err := s.repo.Postgres.Feed.Create(ctx, feed)
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return nil, ErrFeedAlreadyExists
		}
		s.logger.Sugar().Errorf("failed to create feed for user(%s) and result(%d): %s", ownerID.String(), resultID, err.Error())
		return nil, ErrInternal
	}

	return s.buildView(ctx, created, ownerID)
}

// findOwned loads a live feed and checks that actorID owns it.
func (s *feedService) findOwned(ctx context.Context, feedID int64, actorID uuid.UUID) (*model.Feed, error) {
	feed, err := s.findByID(ctx, feedID)
	if err != nil {
		return nil, err
	}
	if !feed.IsOwner(actorID) {
		return nil, ErrAccessDenied
	}
	return feed, nil
}

func (s *feedService) findByID(ctx context.Context, feedID int64) (*model.Feed, error) {
	feed, err := s.repo.Postgres.Feed.FindByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrFeedNotFound
		}
		s.logger.Sugar().Errorf("failed to get feed(%d) from postgres: %s", feedID, err.Error())
		return nil, ErrInternal
	}
	return feed, nil
}

func (s *feedService) Update(ctx context.Context, feedID int64, actorID uuid.UUID, update model.FeedUpdate) (*dto.FeedResponse, error) {
	if _, err := s.findOwned(ctx, feedID, actorID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Postgres.Feed.Update(ctx, feedID, update)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrFeedNotFound
		}
		s.logger.Sugar().Errorf("failed to update feed(%d): %s", feedID, err.Error())
		return nil, ErrInternal
	}

	return s.buildView(ctx, updated, actorID)
}

func (s *feedService) Delete(ctx context.Context, feedID int64, actorID uuid.UUID) error {
	if _, err := s.findOwned(ctx, feedID, actorID); err != nil {
		return err
	}

	if err := s.repo.Postgres.Feed.SoftDelete(ctx, feedID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrFeedNotFound
		}
		s.logger.Sugar().Errorf("failed to delete feed(%d): %s", feedID, err.Error())
		return ErrInternal
	}

	return nil
}

// GetDetail does not check visibility: a private feed is readable by anyone
// who knows its id. List endpoints never expose private feeds of others.
func (s *feedService) GetDetail(ctx context.Context, feedID int64, viewerID uuid.UUID) (*dto.FeedResponse, error) {
	feed, err := s.findByID(ctx, feedID)
	if err != nil {
		return nil, err
	}

	go s.incrViews(feedID)

	return s.buildView(ctx, feed, viewerID)
}

func (s *feedService) incrViews(feedID int64) {
	defer s.viewsDone()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Postgres.Feed.IncrViews(ctx, feedID); err != nil {
		s.logger.Sugar().Errorf("failed to increment views of feed(%d): %s", feedID, err.Error())
	}
}

func (s *feedService) GetTimeline(ctx context.Context, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error) {
	cursor, err := cursorID(s.logger, req)
	if err != nil {
		return nil, err
	}

	feeds, err := s.repo.Postgres.Feed.FindPublic(ctx, cursor, req.FetchSize())
	if err != nil {
		s.logger.Sugar().Errorf("failed to get public feeds: %s", err.Error())
		return nil, ErrInternal
	}

	return s.buildPage(ctx, pagination.Of(feeds, req.EffectiveSize(), feedCursor), viewerID)
}

// GetUserFeeds lists the owner's feeds. Other viewers only see public ones,
// filtered after the page is cut, so such a page can be short.
func (s *feedService) GetUserFeeds(ctx context.Context, ownerID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error) {
	cursor, err := cursorID(s.logger, req)
	if err != nil {
		return nil, err
	}

	feeds, err := s.repo.Postgres.Feed.FindByUser(ctx, ownerID, cursor, req.FetchSize())
	if err != nil {
		s.logger.Sugar().Errorf("failed to get feeds of user(%s): %s", ownerID.String(), err.Error())
		return nil, ErrInternal
	}

	page := pagination.Of(feeds, req.EffectiveSize(), feedCursor)
	if viewerID != ownerID {
		page = pagination.Filter(page, func(feed *model.Feed) bool {
			return feed.Visibility.IsPublic()
		})
	}

	return s.buildPage(ctx, page, viewerID)
}

func (s *feedService) ToggleReaction(ctx context.Context, feedID int64, actorID uuid.UUID, reactionType model.ReactionType) (*dto.ToggleResponse, error) {
	if _, err := s.findByID(ctx, feedID); err != nil {
		return nil, err
	}

	key := model.FeedReactionKey{
		FeedID:       feedID,
		UserID:       actorID,
		ReactionType: reactionType,
	}
	outcome, err := toggle[model.FeedReactionKey](ctx, s.repo.Postgres.FeedReaction, key)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle reaction(%s) of user(%s) on feed(%d): %s", reactionType, actorID.String(), feedID, err.Error())
		return nil, ErrInternal
	}

	s.metrics.ReactionToggles.WithLabelValues("feed", string(reactionType), metrics.State(outcome.Active)).Inc()

	if outcome.Created {
		publish(ctx, s.logger, s.broker, rabbitmq.FEED_REACTION_ADDED_QUEUE, dto.MQFeedReactionAddedMsg{
			FeedID:       feedID,
			UserID:       actorID,
			ReactionType: string(reactionType),
			CreatedAt:    time.Now(),
		})
	}

	counts, err := s.repo.Postgres.FeedReaction.CountByFeed(ctx, feedID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count reactions of feed(%d): %s", feedID, err.Error())
		return nil, ErrInternal
	}

	var current int64
	for _, c := range counts {
		if c.ReactionType == reactionType {
			current = c.Count
		}
	}

	return &dto.ToggleResponse{
		Active:       outcome.Active,
		ReactionType: string(reactionType),
		CurrentCount: current,
	}, nil
}

func (s *feedService) buildPage(ctx context.Context, page pagination.Page[*model.Feed], viewerID uuid.UUID) (*pagination.Page[dto.FeedResponse], error) {
	views, err := pagination.TryMap(page, func(feed *model.Feed) (dto.FeedResponse, error) {
		view, err := s.buildView(ctx, feed, viewerID)
		if err != nil {
			return dto.FeedResponse{}, err
		}
		return *view, nil
	})
	if err != nil {
		return nil, err
	}
	return &views, nil
}

func (s *feedService) buildView(ctx context.Context, feed *model.Feed, viewerID uuid.UUID) (*dto.FeedResponse, error) {
	owner, err := s.users.FindByID(ctx, feed.UserID)
	if err != nil {
		return nil, err
	}

	vibeResult, err := s.vibeResults.FindByID(ctx, feed.ResultID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.Postgres.FeedReaction.CountByFeed(ctx, feed.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count reactions of feed(%d): %s", feed.ID, err.Error())
		return nil, ErrInternal
	}

	commentCount, err := s.repo.Postgres.Comment.CountByFeed(ctx, feed.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count comments of feed(%d): %s", feed.ID, err.Error())
		return nil, ErrInternal
	}

	myReactionTypes := []string{}
	if viewerID != uuid.Nil {
		types, err := s.repo.Postgres.FeedReaction.FindUserTypes(ctx, feed.ID, viewerID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to get reactions of user(%s) on feed(%d): %s", viewerID.String(), feed.ID, err.Error())
			return nil, ErrInternal
		}
		for _, t := range sortReactionTypes(types) {
			myReactionTypes = append(myReactionTypes, string(t))
		}
	}

	return &dto.FeedResponse{
		FeedID:            feed.ID,
		UserID:            feed.UserID,
		Nickname:          owner.Nickname,
		ProfileImageURL:   owner.ProfileImageURL,
		ResultID:          feed.ResultID,
		GeneratedImageURL: vibeResult.GeneratedImageURL,
		Phrase:            vibeResult.Phrase,
		Caption:           feed.Caption,
		Visibility:        string(feed.Visibility),
		IsPinned:          feed.IsPinned,
		ViewCount:         feed.ViewCount,
		Reactions:         reactionSummary(counts),
		CommentCount:      commentCount,
		MyReactionTypes:   myReactionTypes,
		CreatedAt:         feed.CreatedAt,
		UpdatedAt:         feed.UpdatedAt,
	}, nil
}

// reactionSummary lists types with a non-zero count in display order.
func reactionSummary(counts []model.ReactionCount) []dto.ReactionSummary {
	byType := make(map[model.ReactionType]int64, len(counts))
	for _, c := range counts {
		byType[c.ReactionType] += c.Count
	}

	summary := []dto.ReactionSummary{}
	for _, rt := range model.ReactionTypes {
		if count := byType[rt]; count > 0 {
			summary = append(summary, dto.ReactionSummary{ReactionType: string(rt), Count: count})
		}
	}
	return summary
}

func sortReactionTypes(types []model.ReactionType) []model.ReactionType {
	held := make(map[model.ReactionType]bool, len(types))
	for _, t := range types {
		held[t] = true
	}

	sorted := make([]model.ReactionType, 0, len(types))
	for _, rt := range model.ReactionTypes {
		if held[rt] {
			sorted = append(sorted, rt)
		}
	}
	return sorted
}
