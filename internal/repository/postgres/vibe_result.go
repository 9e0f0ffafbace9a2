package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
)

type vibeResultRepo struct {
	db Querier
}

func newVibeResultRepo(db Querier) VibeResult {
	return &vibeResultRepo{
		db: db,
	}
}

func (r *vibeResultRepo) FindByID(ctx context.Context, id int64) (*model.VibeResult, error) {
	var result model.VibeResult
	if err := r.db.QueryRow(
		ctx,
		"SELECT r.result_id, r.session_id, r.phrase, r.generated_image_url, r.created_at FROM vibe_results r WHERE r.result_id = $1",
		id,
	).Scan(
		&result.ID,
		&result.SessionID,
		&result.Phrase,
		&result.GeneratedImageURL,
		&result.CreatedAt,
	); err != nil {
		return nil, translate(err, "select vibe result")
	}

	return &result, nil
}
