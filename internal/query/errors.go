package query

import "errors"

// User-visible messages stored in State.Error.
const (
	MsgEmptyQuery      = "Please enter a query."
	MsgExecutionFailed = "Failed to process your query. Please try again."
)

var (
	// ErrEmptyQuery is returned when a submission is blank after trimming.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrExecutionFailed wraps the cause of a failed settlement.
	ErrExecutionFailed = errors.New("query execution failed")

	// ErrControllerClosed is returned by Execute after Close.
	ErrControllerClosed = errors.New("query controller closed")
)
