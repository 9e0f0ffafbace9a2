package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const userCacheTTL = time.Hour

type userCacheService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	broker     MessageBroker
	httpClient *http.Client
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository, broker MessageBroker) *userCacheService {
	return &userCacheService{
		logger:     logger,
		repo:       repo,
		broker:     broker,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// CreateOrGet returns the cached profile of an authenticated user, fetching it
// from user-service with the caller's token on first sight.
func (s *userCacheService) CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error) {
	cachedUser, err := s.FindByID(ctx, id)
	if err == nil {
		return cachedUser, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	fetchedUser, err := s.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if fetchedUser.ID != id {
		s.logger.Sugar().Errorf("user-service returned user(%s) for token of user(%s)", fetchedUser.ID.String(), id.String())
		return nil, ErrUnauthorized
	}

	if err := s.Create(ctx, *fetchedUser); err != nil {
		return nil, err
	}

	return fetchedUser, nil
}

func (s *userCacheService) fetchUser(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	endpoint := "/users/@me"
	url := viper.GetString("user-service.api") + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create request to user-service: %s", err.Error())
		return nil, ErrInternal
	}

	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to send request to user-service: %s", err.Error())
		return nil, ErrInternal
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read response body from user-service: %s", err.Error())
		return nil, ErrInternal
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from user-service: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from user-service endpoint(%s), details: %v", endpoint, bodyJSON["details"])
		}
		return nil, ErrInternal
	}

	var user model.CachedUser
	if err := json.Unmarshal(body, &user); err != nil {
		s.logger.Sugar().Errorf("failed to decode user response body from user-service: %s", err.Error())
		return nil, ErrInternal
	}

	return &user, nil
}

func (s *userCacheService) Create(ctx context.Context, cachedUser model.CachedUser) error {
	if err := s.repo.Postgres.UserCache.Create(ctx, cachedUser); err != nil {
		s.logger.Sugar().Errorf("failed to create cached user(%s): %s", cachedUser.ID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *userCacheService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := s.repo.Postgres.UserCache.Update(ctx, id, updates); err != nil {
		if errors.Is(err, postgres.ErrFieldsNotAllowedToUpdate) {
			return ErrInvalidParameter
		}
		s.logger.Sugar().Errorf("failed to update cached user(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(id.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", id.String(), err.Error())
	}

	return nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get cached user(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, userCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

// findMany resolves each distinct id once.
func (s *userCacheService) findMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.CachedUser, error) {
	users := make(map[uuid.UUID]*model.CachedUser, len(ids))
	for _, id := range ids {
		if _, ok := users[id]; ok {
			continue
		}
		user, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		users[id] = user
	}
	return users, nil
}

func (s *userCacheService) consumeUserUpdates(ctx context.Context) {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := s.broker.Consume(queue)
	if err != nil {
		s.logger.Sugar().Fatalf("failed to start consume updates from queue(%s): %s", queue, err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.handleUserUpdate(ctx, queue, msg.Body, msg.Ack, msg.Nack)
		}
	}
}

func (s *userCacheService) handleUserUpdate(ctx context.Context, queue string, body []byte, ack func(multiple bool) error, nack func(multiple bool, requeue bool) error) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
		nack(false, false)
		return
	}

	userIDString, exists := data["user_id"].(string)
	if !exists {
		s.logger.Sugar().Errorf("'user_id' field is not provided")
		nack(false, false)
		return
	}
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		s.logger.Sugar().Errorf("provided an invalid user_id")
		nack(false, false)
		return
	}

	delete(data, "user_id")

	if err := s.Update(ctx, userID, data); err != nil {
		nack(false, !errors.Is(err, ErrInvalidParameter))
		return
	}

	ack(false)
}
