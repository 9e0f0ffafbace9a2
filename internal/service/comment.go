package service

import (
	"context"
	"errors"

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

type commentService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	broker  MessageBroker
	metrics *metrics.Metrics
	users   *userCacheService
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, broker MessageBroker, m *metrics.Metrics, users *userCacheService) *commentService {
	return &commentService{
		logger:  logger,
		repo:    repo,
		broker:  broker,
		metrics: m,
		users:   users,
	}
}

func commentCursor(comment *model.Comment) string {
	return pagination.Int64Cursor(comment.ID)
}

func (s *commentService) ensureFeed(ctx context.Context, feedID int64) (*model.Feed, error) {
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

func (s *commentService) findByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to get comment(%d) from postgres: %s", commentID, err.Error())
		return nil, ErrInternal
	}
	return comment, nil
}

// resolveParent returns the id the new comment is attached to. A reply to a
// reply is attached to that reply's root, so the tree stays two levels deep.
func (s *commentService) resolveParent(ctx context.Context, feedID int64, parentCommentID *int64) (*int64, error) {
	if parentCommentID == nil {
		return nil, nil
	}

	parent, err := s.findByID(ctx, *parentCommentID)
	if err != nil {
		return nil, err
	}
	if parent.FeedID != feedID {
		return nil, ErrCommentNotFound
	}

	if parent.IsReply() {
		rootID := *parent.ParentCommentID
		return &rootID, nil
	}

	parentID := parent.ID
	return &parentID, nil
}

func (s *commentService) Create(ctx context.Context, feedID int64, authorID uuid.UUID, content string, parentCommentID *int64) (*dto.CommentResponse, error) {
	if _, err := s.ensureFeed(ctx, feedID); err != nil {
		return nil, err
	}

	parentID, err := s.resolveParent(ctx, feedID, parentCommentID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		FeedID:          feedID,
		UserID:          authorID,
		ParentCommentID: parentID,
		Content:         content,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment on feed(%d) by user(%s): %s", feedID, authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.metrics.CommentsCreated.WithLabelValues(metrics.Depth(created.IsReply())).Inc()

	publish(ctx, s.logger, s.broker, rabbitmq.FEED_COMMENT_CREATED_QUEUE, dto.MQCommentCreatedMsg{
		FeedID:          feedID,
		CommentID:       created.ID,
		UserID:          authorID,
		ParentCommentID: created.ParentCommentID,
		CreatedAt:       created.CreatedAt,
	})

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	view := commentView(created, author, 0, false)
	return &view, nil
}

// List returns a page of root comments newest first. Every root carries all
// of its live replies oldest first.
func (s *commentService) List(ctx context.Context, feedID int64, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.CommentResponse], error) {
	cursor, err := cursorID(s.logger, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.ensureFeed(ctx, feedID); err != nil {
		return nil, err
	}

	roots, err := s.repo.Postgres.Comment.FindTopLevel(ctx, feedID, cursor, req.FetchSize())
	if err != nil {
		s.logger.Sugar().Errorf("failed to get comments of feed(%d): %s", feedID, err.Error())
		return nil, ErrInternal
	}
	page := pagination.Of(roots, req.EffectiveSize(), commentCursor)

	rootIDs := make([]int64, 0, len(page.Content))
	for _, root := range page.Content {
		rootIDs = append(rootIDs, root.ID)
	}

	replies, err := s.repo.Postgres.Comment.FindReplies(ctx, rootIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get replies of feed(%d): %s", feedID, err.Error())
		return nil, ErrInternal
	}

	repliesByRoot := make(map[int64][]*model.Comment, len(rootIDs))
	allIDs := append([]int64{}, rootIDs...)
	authorIDs := make([]uuid.UUID, 0, len(page.Content)+len(replies))
	for _, root := range page.Content {
		authorIDs = append(authorIDs, root.UserID)
	}
	for _, reply := range replies {
		repliesByRoot[*reply.ParentCommentID] = append(repliesByRoot[*reply.ParentCommentID], reply)
		allIDs = append(allIDs, reply.ID)
		authorIDs = append(authorIDs, reply.UserID)
	}

	likeCounts, err := s.repo.Postgres.CommentReaction.CountByComments(ctx, allIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count comment likes of feed(%d): %s", feedID, err.Error())
		return nil, ErrInternal
	}

	liked := map[int64]bool{}
	if viewerID != uuid.Nil {
		liked, err = s.repo.Postgres.CommentReaction.FindLikedAmong(ctx, viewerID, allIDs)
		if err != nil {
			s.logger.Sugar().Errorf("failed to get comment likes of user(%s) on feed(%d): %s", viewerID.String(), feedID, err.Error())
			return nil, ErrInternal
		}
	}

	authors, err := s.users.findMany(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	result := pagination.Map(page, func(root *model.Comment) dto.CommentResponse {
		view := commentView(root, authors[root.UserID], likeCounts[root.ID], liked[root.ID])
		for _, reply := range repliesByRoot[root.ID] {
			view.Replies = append(view.Replies, commentView(reply, authors[reply.UserID], likeCounts[reply.ID], liked[reply.ID]))
		}
		return view
	})

	return &result, nil
}

func (s *commentService) Update(ctx context.Context, commentID int64, actorID uuid.UUID, content string) (*dto.CommentResponse, error) {
	comment, err := s.findByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsOwner(actorID) {
		return nil, ErrAccessDenied
	}

	updated, err := s.repo.Postgres.Comment.UpdateContent(ctx, commentID, content)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}

	likeCount, err := s.repo.Postgres.CommentReaction.CountByComment(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count likes of comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}
	likedByMe, err := s.repo.Postgres.CommentReaction.Exists(ctx, model.CommentReactionKey{CommentID: commentID, UserID: actorID})
	if err != nil {
		s.logger.Sugar().Errorf("failed to check like of comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}

	author, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	view := commentView(updated, author, likeCount, likedByMe)
	return &view, nil
}

// Delete is allowed for the comment author and for the owner of the feed.
func (s *commentService) Delete(ctx context.Context, commentID int64, actorID uuid.UUID) error {
	comment, err := s.findByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !comment.IsOwner(actorID) {
		feed, err := s.ensureFeed(ctx, comment.FeedID)
		if err != nil {
			if errors.Is(err, ErrFeedNotFound) {
				return ErrAccessDenied
			}
			return err
		}
		if !feed.IsOwner(actorID) {
			return ErrAccessDenied
		}
	}

	if err := s.repo.Postgres.Comment.SoftDelete(ctx, commentID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, commentID int64, actorID uuid.UUID) (*dto.ToggleResponse, error) {
	if _, err := s.findByID(ctx, commentID); err != nil {
		return nil, err
	}

	key := model.CommentReactionKey{CommentID: commentID, UserID: actorID}
	outcome, err := toggle[model.CommentReactionKey](ctx, s.repo.Postgres.CommentReaction, key)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle like of user(%s) on comment(%d): %s", actorID.String(), commentID, err.Error())
		return nil, ErrInternal
	}

	s.metrics.ReactionToggles.WithLabelValues("comment", string(model.ReactionLike), metrics.State(outcome.Active)).Inc()

	count, err := s.repo.Postgres.CommentReaction.CountByComment(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count likes of comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}

	return &dto.ToggleResponse{
		Active:       outcome.Active,
		CurrentCount: count,
	}, nil
}

func commentView(comment *model.Comment, author *model.CachedUser, likeCount int64, likedByMe bool) dto.CommentResponse {
	view := dto.CommentResponse{
		CommentID:       comment.ID,
		FeedID:          comment.FeedID,
		UserID:          comment.UserID,
		ParentCommentID: comment.ParentCommentID,
		Content:         comment.Content,
		LikeCount:       likeCount,
		IsLikedByMe:     likedByMe,
		Replies:         []dto.CommentResponse{},
		CreatedAt:       comment.CreatedAt,
	}
	if author != nil {
		view.Nickname = author.Nickname
		view.ProfileImageURL = author.ProfileImageURL
	}
	return view
}
