package dto

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required,max=1000"`
	ParentCommentID *int64 `json:"parentCommentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}
