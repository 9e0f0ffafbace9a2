package dto

import "github.com/BloggingApp/feed-service/pkg/pagination"

type CursorPageQuery struct {
	Cursor string `form:"cursor"`
	Size   *int   `form:"size"`
}

func (q CursorPageQuery) Request() pagination.Request {
	return pagination.NewRequest(q.Cursor, q.Size)
}
