package postgres

import (
	"context"
	"strconv"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type userCacheRepo struct {
	db Querier
}

func newUserCacheRepo(db Querier) UserCache {
	return &userCacheRepo{
		db: db,
	}
}

var userCacheUpdatableFields = map[string]struct{}{
	"nickname":          {},
	"profile_image_url": {},
}

func (r *userCacheRepo) Create(ctx context.Context, cachedUser model.CachedUser) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO cached_users(id, nickname, profile_image_url) VALUES($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET nickname = EXCLUDED.nickname, profile_image_url = EXCLUDED.profile_image_url`,
		cachedUser.ID,
		cachedUser.Nickname,
		cachedUser.ProfileImageURL,
	)
	return translate(err, "insert cached user")
}

func (r *userCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	for field := range updates {
		if _, ok := userCacheUpdatableFields[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE cached_users SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return translate(err, "update cached user")
}

func (r *userCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.nickname, u.profile_image_url FROM cached_users u WHERE u.id = $1",
		id,
	).Scan(
		&user.ID,
		&user.Nickname,
		&user.ProfileImageURL,
	); err != nil {
		return nil, translate(err, "select cached user")
	}

	return &user, nil
}
