package model

import "github.com/google/uuid"

type CachedUser struct {
	ID              uuid.UUID `json:"id"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profile_image_url"`
}
