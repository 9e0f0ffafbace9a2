package service

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type followService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	broker  MessageBroker
	metrics *metrics.Metrics
	users   *userCacheService
}

func newFollowService(logger *zap.Logger, repo *repository.Repository, broker MessageBroker, m *metrics.Metrics, users *userCacheService) *followService {
	return &followService{
		logger:  logger,
		repo:    repo,
		broker:  broker,
		metrics: m,
		users:   users,
	}
}

func followEdgeCursor(edge *model.FollowEdge) string {
	return pagination.Int64Cursor(edge.ID)
}

func (s *followService) Toggle(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (*dto.ToggleResponse, error) {
	if followerID == followingID {
		return nil, ErrFollowSelf
	}
	if _, err := s.users.FindByID(ctx, followingID); err != nil {
		return nil, err
	}

	key := model.FollowKey{FollowerID: followerID, FollowingID: followingID}
	outcome, err := toggle[model.FollowKey](ctx, s.repo.Postgres.Follow, key)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle follow of user(%s) by user(%s): %s", followingID.String(), followerID.String(), err.Error())
		return nil, ErrInternal
	}

	s.metrics.FollowToggles.WithLabelValues(metrics.State(outcome.Active)).Inc()

	if outcome.Created {
		publish(ctx, s.logger, s.broker, rabbitmq.USER_FOLLOW_CREATED_QUEUE, dto.MQFollowCreatedMsg{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now(),
		})
	}

	followers, err := s.repo.Postgres.Follow.CountFollowers(ctx, followingID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count followers of user(%s): %s", followingID.String(), err.Error())
		return nil, ErrInternal
	}

	return &dto.ToggleResponse{
		Active:       outcome.Active,
		CurrentCount: followers,
	}, nil
}

func (s *followService) Status(ctx context.Context, viewerID uuid.UUID, targetID uuid.UUID) (*dto.FollowStatusResponse, error) {
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}

	var following bool
	if viewerID != uuid.Nil && viewerID != targetID {
		exists, err := s.repo.Postgres.Follow.Exists(ctx, model.FollowKey{FollowerID: viewerID, FollowingID: targetID})
		if err != nil {
			s.logger.Sugar().Errorf("failed to check follow of user(%s) by user(%s): %s", targetID.String(), viewerID.String(), err.Error())
			return nil, ErrInternal
		}
		following = exists
	}

	followers, err := s.repo.Postgres.Follow.CountFollowers(ctx, targetID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count followers of user(%s): %s", targetID.String(), err.Error())
		return nil, ErrInternal
	}
	followings, err := s.repo.Postgres.Follow.CountFollowings(ctx, targetID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count followings of user(%s): %s", targetID.String(), err.Error())
		return nil, ErrInternal
	}

	return &dto.FollowStatusResponse{
		Following:      following,
		FollowerCount:  followers,
		FollowingCount: followings,
	}, nil
}

type findEdgesFunc func(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error)

func (s *followService) Followers(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
	return s.list(ctx, "followers", s.repo.Postgres.Follow.FindFollowers, targetID, viewerID, req)
}

func (s *followService) Followings(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
	return s.list(ctx, "followings", s.repo.Postgres.Follow.FindFollowings, targetID, viewerID, req)
}

func (s *followService) list(ctx context.Context, what string, find findEdgesFunc, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
	cursor, err := cursorID(s.logger, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}

	edges, err := find(ctx, targetID, cursor, req.FetchSize())
	if err != nil {
		s.logger.Sugar().Errorf("failed to get %s of user(%s): %s", what, targetID.String(), err.Error())
		return nil, ErrInternal
	}
	page := pagination.Of(edges, req.EffectiveSize(), followEdgeCursor)

	following := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil && len(page.Content) > 0 {
		ids := make([]uuid.UUID, 0, len(page.Content))
		for _, edge := range page.Content {
			ids = append(ids, edge.User.ID)
		}
		following, err = s.repo.Postgres.Follow.FindFollowingAmong(ctx, viewerID, ids)
		if err != nil {
			s.logger.Sugar().Errorf("failed to get followings of user(%s) among %s: %s", viewerID.String(), what, err.Error())
			return nil, ErrInternal
		}
	}

	result := pagination.Map(page, func(edge *model.FollowEdge) dto.FollowUserResponse {
		return dto.FollowUserResponse{
			UserID:          edge.User.ID,
			Nickname:        edge.User.Nickname,
			ProfileImageURL: edge.User.ProfileImageURL,
			Following:       following[edge.User.ID],
		}
	})

	return &result, nil
}
