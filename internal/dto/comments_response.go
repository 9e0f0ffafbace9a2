package dto

import (
	"time"

	"github.com/google/uuid"
)

type CommentResponse struct {
	CommentID       int64             `json:"commentId"`
	FeedID          int64             `json:"feedId"`
	UserID          uuid.UUID         `json:"userId"`
	Nickname        string            `json:"nickname"`
	ProfileImageURL *string           `json:"profileImageUrl"`
	ParentCommentID *int64            `json:"parentCommentId"`
	Content         string            `json:"content"`
	LikeCount       int64             `json:"likeCount"`
	IsLikedByMe     bool              `json:"isLikedByMe"`
	Replies         []CommentResponse `json:"replies"`
	CreatedAt       time.Time         `json:"createdAt"`
}
