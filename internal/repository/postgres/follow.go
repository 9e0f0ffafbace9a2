package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type followRepo struct {
	db Querier
}

func newFollowRepo(db Querier) Follow {
	return &followRepo{
		db: db,
	}
}

func (r *followRepo) Exists(ctx context.Context, key model.FollowKey) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		key.FollowerID,
		key.FollowingID,
	).Scan(&exists); err != nil {
		return false, translate(err, "check follow")
	}

	return exists, nil
}

func (r *followRepo) Insert(ctx context.Context, key model.FollowKey) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO follows(follower_id, following_id, created_at) VALUES($1, $2, $3)",
		key.FollowerID,
		key.FollowingID,
		time.Now(),
	)
	return translate(err, "insert follow")
}

func (r *followRepo) Delete(ctx context.Context, key model.FollowKey) error {
	_, err := r.db.Exec(
		ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND following_id = $2",
		key.FollowerID,
		key.FollowingID,
	)
	return translate(err, "delete follow")
}

func (r *followRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE following_id = $1", userID).Scan(&count); err != nil {
		return 0, translate(err, "count followers")
	}

	return count, nil
}

func (r *followRepo) CountFollowings(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE follower_id = $1", userID).Scan(&count); err != nil {
		return 0, translate(err, "count followings")
	}

	return count, nil
}

func (r *followRepo) FindFollowers(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error) {
	return r.findEdges(
		ctx,
		`SELECT f.follow_id, u.id, u.nickname, u.profile_image_url
		FROM follows f
		JOIN cached_users u ON f.follower_id = u.id
		WHERE f.following_id = $1
		AND ($2::BIGINT IS NULL OR f.follow_id < $2)
		ORDER BY f.follow_id DESC
		LIMIT $3`,
		userID,
		cursor,
		limit,
	)
}

func (r *followRepo) FindFollowings(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error) {
	return r.findEdges(
		ctx,
		`SELECT f.follow_id, u.id, u.nickname, u.profile_image_url
		FROM follows f
		JOIN cached_users u ON f.following_id = u.id
		WHERE f.follower_id = $1
		AND ($2::BIGINT IS NULL OR f.follow_id < $2)
		ORDER BY f.follow_id DESC
		LIMIT $3`,
		userID,
		cursor,
		limit,
	)
}

func (r *followRepo) findEdges(ctx context.Context, query string, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error) {
	rows, err := r.db.Query(ctx, query, userID, cursor, limit)
	if err != nil {
		return nil, translate(err, "select follow edges")
	}
	defer rows.Close()

	var edges []*model.FollowEdge
	for rows.Next() {
		var edge model.FollowEdge
		if err := rows.Scan(
			&edge.ID,
			&edge.User.ID,
			&edge.User.Nickname,
			&edge.User.ProfileImageURL,
		); err != nil {
			return nil, translate(err, "scan follow edge")
		}
		edges = append(edges, &edge)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan follow edges")
	}

	return edges, nil
}

func (r *followRepo) FindFollowingAmong(ctx context.Context, followerID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	following := make(map[uuid.UUID]bool, len(userIDs))
	if len(userIDs) == 0 {
		return following, nil
	}

	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.Query(
		ctx,
		"SELECT following_id FROM follows WHERE follower_id = $1 AND following_id = ANY($2::UUID[])",
		followerID,
		ids,
	)
	if err != nil {
		return nil, translate(err, "select followed users")
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "scan followed user")
		}
		following[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, "scan followed users")
	}

	return following, nil
}
