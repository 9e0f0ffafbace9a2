package handler

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/BloggingApp/feed-service/pkg/pagination"
	"github.com/google/uuid"
)

type feedCall struct {
	feedID       int64
	actorID      uuid.UUID
	resultID     int64
	visibility   *model.Visibility
	update       model.FeedUpdate
	reactionType model.ReactionType
	req          pagination.Request
}

type stubFeeds struct {
	last feedCall
	err  error
}

func (s *stubFeeds) Create(ctx context.Context, ownerID uuid.UUID, resultID int64, caption *string, visibility *model.Visibility) (*dto.FeedResponse, error) {
	s.last = feedCall{actorID: ownerID, resultID: resultID, visibility: visibility}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FeedResponse{FeedID: 1, UserID: ownerID, ResultID: resultID, Visibility: "private"}, nil
}

func (s *stubFeeds) Update(ctx context.Context, feedID int64, actorID uuid.UUID, update model.FeedUpdate) (*dto.FeedResponse, error) {
	s.last = feedCall{feedID: feedID, actorID: actorID, update: update}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FeedResponse{FeedID: feedID}, nil
}

func (s *stubFeeds) Delete(ctx context.Context, feedID int64, actorID uuid.UUID) error {
	s.last = feedCall{feedID: feedID, actorID: actorID}
	return s.err
}

func (s *stubFeeds) GetDetail(ctx context.Context, feedID int64, viewerID uuid.UUID) (*dto.FeedResponse, error) {
	s.last = feedCall{feedID: feedID, actorID: viewerID}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FeedResponse{FeedID: feedID, MyReactionTypes: []string{}}, nil
}

func (s *stubFeeds) GetTimeline(ctx context.Context, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error) {
	s.last = feedCall{actorID: viewerID, req: req}
	if s.err != nil {
		return nil, s.err
	}
	page := pagination.Of([]dto.FeedResponse{{FeedID: 3}, {FeedID: 2}}, 1, func(f dto.FeedResponse) string {
		return pagination.Int64Cursor(f.FeedID)
	})
	return &page, nil
}

func (s *stubFeeds) GetUserFeeds(ctx context.Context, ownerID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FeedResponse], error) {
	s.last = feedCall{actorID: viewerID, req: req}
	page := pagination.Of[dto.FeedResponse](nil, req.EffectiveSize(), nil)
	return &page, s.err
}

func (s *stubFeeds) ToggleReaction(ctx context.Context, feedID int64, actorID uuid.UUID, reactionType model.ReactionType) (*dto.ToggleResponse, error) {
	s.last = feedCall{feedID: feedID, actorID: actorID, reactionType: reactionType}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ToggleResponse{Active: true, ReactionType: string(reactionType), CurrentCount: 1}, nil
}

type stubComments struct {
	content  string
	parentID *int64
	err      error
}

func (s *stubComments) Create(ctx context.Context, feedID int64, authorID uuid.UUID, content string, parentCommentID *int64) (*dto.CommentResponse, error) {
	s.content = content
	s.parentID = parentCommentID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CommentResponse{CommentID: 10, FeedID: feedID, UserID: authorID, Content: content, Replies: []dto.CommentResponse{}}, nil
}

func (s *stubComments) List(ctx context.Context, feedID int64, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.CommentResponse], error) {
	page := pagination.Of[dto.CommentResponse](nil, req.EffectiveSize(), nil)
	return &page, s.err
}

func (s *stubComments) Update(ctx context.Context, commentID int64, actorID uuid.UUID, content string) (*dto.CommentResponse, error) {
	s.content = content
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CommentResponse{CommentID: commentID, Content: content}, nil
}

func (s *stubComments) Delete(ctx context.Context, commentID int64, actorID uuid.UUID) error {
	return s.err
}

func (s *stubComments) ToggleLike(ctx context.Context, commentID int64, actorID uuid.UUID) (*dto.ToggleResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ToggleResponse{Active: true, CurrentCount: 1}, nil
}

type stubFollows struct {
	err error
}

func (s *stubFollows) Toggle(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (*dto.ToggleResponse, error) {
	if followerID == followingID {
		return nil, service.ErrFollowSelf
	}
	return &dto.ToggleResponse{Active: true, CurrentCount: 1}, s.err
}

func (s *stubFollows) Status(ctx context.Context, viewerID uuid.UUID, targetID uuid.UUID) (*dto.FollowStatusResponse, error) {
	return &dto.FollowStatusResponse{Following: true, FollowerCount: 1}, s.err
}

func (s *stubFollows) Followers(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
	page := pagination.Of([]dto.FollowUserResponse{{UserID: viewerID}}, req.EffectiveSize(), nil)
	return &page, s.err
}

func (s *stubFollows) Followings(ctx context.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
	page := pagination.Of[dto.FollowUserResponse](nil, req.EffectiveSize(), nil)
	return &page, s.err
}

type stubUsers struct {
	users map[uuid.UUID]model.CachedUser
}

func (s *stubUsers) CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return &user, nil
}

func (s *stubUsers) Create(ctx context.Context, cachedUser model.CachedUser) error {
	s.users[cachedUser.ID] = cachedUser
	return nil
}

func (s *stubUsers) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	return s.CreateOrGet(ctx, id, "")
}
