package service

import "errors"

// Sentinel errors returned by Service.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrRefreshUnavailable = errors.New("refresh not configured")
	ErrRefreshRunning     = errors.New("refresh already running")
)
