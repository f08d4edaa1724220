package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrLimitRange       = errors.New("limit out of range")
	ErrRateLimited      = errors.New("rate limited")
	ErrMethodNotAllowed = errors.New("method not allowed")
)
