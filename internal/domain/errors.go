package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrSourceOffline indicates the picture list endpoint is unreachable
	ErrSourceOffline = errors.New("picture source is unreachable")

	// ErrUnexpectedStatus indicates a non-200 response from a remote endpoint
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecodeFailed indicates an image could not be fetched or decoded
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrCacheMiss indicates the session cache holds no usable picture list
	ErrCacheMiss = errors.New("picture list not cached")
)
