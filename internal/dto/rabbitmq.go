package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQFeedReactionAddedMsg struct {
	FeedID       int64     `json:"feed_id"`
	UserID       uuid.UUID `json:"user_id"`
	ReactionType string    `json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type MQCommentCreatedMsg struct {
	FeedID          int64     `json:"feed_id"`
	CommentID       int64     `json:"comment_id"`
	UserID          uuid.UUID `json:"user_id"`
	ParentCommentID *int64    `json:"parent_comment_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type MQFollowCreatedMsg struct {
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
