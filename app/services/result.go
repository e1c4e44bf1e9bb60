package services

import "simplefeed/app/validation"

// Status is the outcome of a resource operation.
type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusUpdated
	StatusDeleted
	StatusRejected
	StatusNotFound
	StatusDeleteFailed
)

var statusNames = [...]string{
	StatusOK:           "ok",
	StatusCreated:      "created",
	StatusUpdated:      "updated",
	StatusDeleted:      "deleted",
	StatusRejected:     "rejected",
	StatusNotFound:     "not_found",
	StatusDeleteFailed: "delete_failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Messages carried by NotFound and DeleteFailed results.
const (
	MsgPostNotFound        = "Post not found"
	MsgCommentNotFound     = "Comment not found"
	MsgPostDeleteFailed    = "Post could not be deleted."
	MsgCommentDeleteFailed = "댓글이 정상적으로 삭제되지 않았습니다"
)

// Result is what a resource operation hands to the response layer. Value
// holds the entity or collection; on StatusRejected it holds the candidate
// with the attempted values.
type Result[T any] struct {
	Status  Status
	Value   T
	Errors  *validation.Errors
	Message string
	// Cause is the store error behind a StatusDeleteFailed result.
	Cause error
}

func ok[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

func notFound[T any](msg string) Result[T] {
	return Result[T]{Status: StatusNotFound, Message: msg}
}

func rejected[T any](v T, errs *validation.Errors) Result[T] {
	return Result[T]{Status: StatusRejected, Value: v, Errors: errs}
}
