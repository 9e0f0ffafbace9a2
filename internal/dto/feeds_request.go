package dto

type CreateFeedRequest struct {
	ResultID   int64   `json:"resultId" binding:"required,gt=0"`
	Caption    *string `json:"caption" binding:"omitempty,max=2000"`
	Visibility *string `json:"visibility" binding:"omitempty,oneof=public private"`
}

// UpdateFeedRequest leaves a field untouched when it is omitted or null.
type UpdateFeedRequest struct {
	Caption    *string `json:"caption" binding:"omitempty,max=2000"`
	Visibility *string `json:"visibility" binding:"omitempty,oneof=public private"`
}

type ToggleReactionQuery struct {
	ReactionType string `form:"reactionType" binding:"required"`
}
