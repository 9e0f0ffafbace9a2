package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReactionType string

const (
	ReactionLike ReactionType = "LIKE"
	ReactionLove ReactionType = "LOVE"
	ReactionWow  ReactionType = "WOW"
	ReactionCozy ReactionType = "COZY"
)

// ReactionTypes lists every reaction type in display order.
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionWow, ReactionCozy}

func ParseReactionType(s string) (ReactionType, bool) {
	candidate := ReactionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, rt := range ReactionTypes {
		if rt == candidate {
			return rt, true
		}
	}
	return "", false
}

// FeedReactionKey identifies a feed reaction; unique per (feed, user, type).
type FeedReactionKey struct {
	FeedID       int64
	UserID       uuid.UUID
	ReactionType ReactionType
}

type FeedReaction struct {
	ID           int64        `json:"id"`
	FeedID       int64        `json:"feed_id"`
	UserID       uuid.UUID    `json:"user_id"`
	ReactionType ReactionType `json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

type ReactionCount struct {
	ReactionType ReactionType
	Count        int64
}

// CommentReactionKey identifies a comment like; unique per (comment, user).
type CommentReactionKey struct {
	CommentID int64
	UserID    uuid.UUID
}

type CommentReaction struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"comment_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
