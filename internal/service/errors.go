package service

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
	KindUnauthorized
)

// Error is a domain failure with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInternal         = newError(KindInternal, "COM_001", "internal server error")
	ErrInvalidParameter = newError(KindValidation, "COM_005", "invalid parameter")

	ErrUnauthorized = newError(KindUnauthorized, "AUTH_001", "authentication required")
	ErrAccessDenied = newError(KindForbidden, "AUTH_002", "access denied")

	ErrUserNotFound = newError(KindNotFound, "USER_001", "user not found")

	ErrVibeResultNotFound = newError(KindNotFound, "VIBE_002", "vibe result not found")

	ErrFeedNotFound      = newError(KindNotFound, "FEED_001", "feed not found")
	ErrFeedAlreadyExists = newError(KindConflict, "FEED_002", "feed already exists")
	ErrCommentNotFound   = newError(KindNotFound, "FEED_003", "comment not found")

	ErrFollowSelf = newError(KindValidation, "FOLLOW_003", "cannot follow yourself")
)

// AsError unwraps err into a domain error. Anything else is reported as
// ErrInternal.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return ErrInternal
}
