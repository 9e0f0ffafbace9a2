package model

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(s), true
	}
	return "", false
}

func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic
}

func VisibilityOf(isPublic bool) Visibility {
	if isPublic {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// Feed is one shared vibe result. A row with DeletedAt set is invisible to
// every read.
type Feed struct {
	ID         int64      `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ResultID   int64      `json:"result_id"`
	Caption    *string    `json:"caption"`
	Visibility Visibility `json:"visibility"`
	IsPinned   bool       `json:"is_pinned"`
	ViewCount  int64      `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

func (f *Feed) IsOwner(userID uuid.UUID) bool {
	return f.UserID == userID
}

// FeedUpdate carries a partial update; nil fields are left untouched.
type FeedUpdate struct {
	Caption    *string
	Visibility *Visibility
}
