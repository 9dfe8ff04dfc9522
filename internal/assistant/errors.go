package assistant

import "errors"

var (
	ErrRateLimited      = errors.New("assistant rate limited")
	ErrCreditsExhausted = errors.New("assistant credits exhausted")
	ErrUpstream         = errors.New("assistant upstream failure")
	ErrMalformedPayload = errors.New("assistant returned a malformed payload")
	ErrInvalidInput     = errors.New("invalid assistant request")
)
