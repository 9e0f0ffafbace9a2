// Package pagination implements keyset (cursor) pagination over results
// ordered by a unique, monotonically assigned key in descending order.
//
// A caller builds a Request from the query string, fetches FetchSize() rows
// with key < CursorID() (when a cursor is present), and hands the rows to Of.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

type Request struct {
	Cursor string
	Size   int
}

// NewRequest normalizes the raw query values. A nil size means the client
// did not send one.
func NewRequest(cursor string, size *int) Request {
	req := Request{
		Cursor: strings.TrimSpace(cursor),
		Size:   DefaultSize,
	}
	if size != nil {
		req.Size = clamp(*size)
	}
	return req
}

func clamp(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// EffectiveSize is the page size after clamping to [1, MaxSize].
func (r Request) EffectiveSize() int {
	return clamp(r.Size)
}

// FetchSize is the number of rows to read from storage: one more than the
// page so that Of can tell whether a next page exists.
func (r Request) FetchSize() int {
	return r.EffectiveSize() + 1
}

func (r Request) HasCursor() bool {
	return r.Cursor != ""
}

// CursorID parses the cursor as an int64 key. It returns nil when there is no
// cursor, meaning "start from the newest row".
func (r Request) CursorID() (*int64, error) {
	if !r.HasCursor() {
		return nil, nil
	}
	id, err := strconv.ParseInt(r.Cursor, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidCursor
	}
	return &id, nil
}

type Page[T any] struct {
	Content    []T     `json:"content"`
	NextCursor *string `json:"nextCursor"`
	Size       int     `json:"size"`
	HasNext    bool    `json:"hasNext"`
}

// Of builds a page from rows fetched with FetchSize. When more than size rows
// were fetched the extra row is dropped and the cursor points at the last
// retained element.
func Of[T any](fetched []T, size int, cursorOf func(T) string) Page[T] {
	content := fetched
	hasNext := len(fetched) > size
	if hasNext {
		content = fetched[:size]
	}
	if content == nil {
		content = []T{}
	}

	page := Page[T]{
		Content: content,
		Size:    size,
		HasNext: hasNext,
	}
	if hasNext {
		next := cursorOf(content[len(content)-1])
		page.NextCursor = &next
	}

	return page
}

// Map converts page content while keeping the cursor envelope.
func Map[T, R any](page Page[T], fn func(T) R) Page[R] {
	content := make([]R, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}
	return Page[R]{
		Content:    content,
		NextCursor: page.NextCursor,
		Size:       page.Size,
		HasNext:    page.HasNext,
	}
}

// TryMap is Map for conversions that can fail. It stops at the first error.
func TryMap[T, R any](page Page[T], fn func(T) (R, error)) (Page[R], error) {
	content := make([]R, 0, len(page.Content))
	for _, item := range page.Content {
		converted, err := fn(item)
		if err != nil {
			return Page[R]{}, err
		}
		content = append(content, converted)
	}
	return Page[R]{
		Content:    content,
		NextCursor: page.NextCursor,
		Size:       page.Size,
		HasNext:    page.HasNext,
	}, nil
}

// Filter drops content rejected by keep. The cursor envelope is left as is, so
// a filtered page may be shorter than Size while HasNext stays true.
func Filter[T any](page Page[T], keep func(T) bool) Page[T] {
	content := make([]T, 0, len(page.Content))
	for _, item := range page.Content {
		if keep(item) {
			content = append(content, item)
		}
	}
	page.Content = content
	return page
}

// Int64Cursor formats an int64 key as a cursor string.
func Int64Cursor(id int64) string {
	return strconv.FormatInt(id, 10)
}
