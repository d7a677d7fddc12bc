package domain

import "errors"

var (
	// ErrMalformedRecord is returned when an input line cannot be decoded
	ErrMalformedRecord = errors.New("malformed input record")

	// ErrNoCatalog is returned when the product catalog file cannot be opened
	ErrNoCatalog = errors.New("product catalog unavailable")

	// ErrNoListings is returned when the listings file cannot be opened
	ErrNoListings = errors.New("listings file unavailable")
)
