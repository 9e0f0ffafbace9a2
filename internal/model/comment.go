package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID              int64      `json:"id"`
	FeedID          int64      `json:"feed_id"`
	UserID          uuid.UUID  `json:"user_id"`
	ParentCommentID *int64     `json:"parent_comment_id"`
	Content         string     `json:"content"`
	IsHidden        bool       `json:"is_hidden"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}

func (c *Comment) IsOwner(userID uuid.UUID) bool {
	return c.UserID == userID
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
