package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Series Errors
	ErrMalformedInput = errors.New("malformed bar input")

	// Upstream (price source) Errors
	ErrUpstreamUnavailable  = errors.New("price source is unavailable")
	ErrUpstreamStatus       = errors.New("price source returned a non-success status")
	ErrUpstreamDecode       = errors.New("price source response could not be decoded")
	ErrRateLimited          = errors.New("price source rate limit exceeded")
	ErrAuthenticationFailed = errors.New("price source authentication failed (check API keys)")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)

// IsUpstream reports whether err originated from a price source rather than from
// the request itself or from series normalization.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrUpstreamStatus) ||
		errors.Is(err, ErrUpstreamDecode) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrAuthenticationFailed)
}
