package model

import (
	"time"

	"github.com/google/uuid"
)

// FollowKey is a directed edge: FollowerID follows FollowingID.
type FollowKey struct {
	FollowerID  uuid.UUID
	FollowingID uuid.UUID
}

type Follow struct {
	ID          int64     `json:"id"`
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowEdge is a follow row joined with the user on the other end.
type FollowEdge struct {
	ID   int64
	User CachedUser
}
