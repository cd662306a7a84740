package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery rejects searches that are blank after trimming.
var ErrEmptyQuery = errors.New("search query is empty")

// NetworkError means the request did not complete or came back non-2xx without a usable detail.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network response was not ok (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ApplicationError carries the server-supplied detail of a rejected request.
type ApplicationError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ApplicationError) Error() string {
	return e.Detail
}
