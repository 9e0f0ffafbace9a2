package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Vibe results never change once written.
const vibeResultTTL = 24 * time.Hour

type vibeResultService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newVibeResultService(logger *zap.Logger, repo *repository.Repository) *vibeResultService {
	return &vibeResultService{
		logger: logger,
		repo:   repo,
	}
}

func (s *vibeResultService) FindByID(ctx context.Context, id int64) (*model.VibeResult, error) {
	key := redisrepo.VibeResultKey(id)

	cached, err := redisrepo.Get[model.VibeResult](s.repo.Redis.Default, ctx, key)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get vibe result(%d) from redis: %s", id, err.Error())
	}

	result, err := s.repo.Postgres.VibeResult.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrVibeResultNotFound
		}

		s.logger.Sugar().Errorf("failed to get vibe result(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, result, vibeResultTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set vibe result(%d) in redis: %s", id, err.Error())
	}

	return result, nil
}
