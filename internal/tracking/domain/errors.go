package domain

import "errors"

var (
	ErrNotTracked   = errors.New("product is not being tracked")
	ErrNotTrackable = errors.New("product has no tracked lifespan")
	ErrUnknown      = errors.New("unknown product")
)
