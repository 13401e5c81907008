package domain

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAuthentication   = errors.New("upstream rejected credentials")
	ErrAuthorization    = errors.New("insufficient permissions")
	ErrIdentityMismatch = errors.New("identity mismatch")
	ErrUpstreamFetch    = errors.New("upstream fetch failed")
	ErrNotFound         = errors.New("resource not found")
	ErrCacheUnavailable = errors.New("cache store unavailable")
)
