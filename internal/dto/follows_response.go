package dto

import "github.com/google/uuid"

type FollowStatusResponse struct {
	Following      bool  `json:"following"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// FollowUserResponse is one row of a followers/followings list. Following
// tells whether the viewer follows this user.
type FollowUserResponse struct {
	UserID          uuid.UUID `json:"userId"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Following       bool      `json:"following"`
}
