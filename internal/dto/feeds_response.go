package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReactionSummary struct {
	ReactionType string `json:"reactionType"`
	Count        int64  `json:"count"`
}

type FeedResponse struct {
	FeedID            int64             `json:"feedId"`
	UserID            uuid.UUID         `json:"userId"`
	Nickname          string            `json:"nickname"`
	ProfileImageURL   *string           `json:"profileImageUrl"`
	ResultID          int64             `json:"resultId"`
	GeneratedImageURL *string           `json:"generatedImageUrl"`
	Phrase            string            `json:"phrase"`
	Caption           *string           `json:"caption"`
	Visibility        string            `json:"visibility"`
	IsPinned          bool              `json:"isPinned"`
	ViewCount         int64             `json:"viewCount"`
	Reactions         []ReactionSummary `json:"reactions"`
	CommentCount      int64             `json:"commentCount"`
	MyReactionTypes   []string          `json:"myReactionTypes"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ToggleResponse is returned by every toggle endpoint. ReactionType is only
// set for feed reactions.
type ToggleResponse struct {
	Active       bool   `json:"active"`
	ReactionType string `json:"reactionType,omitempty"`
	CurrentCount int64  `json:"currentCount"`
}
