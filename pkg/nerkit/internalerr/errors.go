package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTokenization marks an upstream analyzer failure. Entry points log it
	// and return an empty result instead of surfacing it.
	ErrTokenization = errors.New("tokenization failed")

	// ErrInvalidFeatureInput is returned when an empty or malformed token
	// reaches the feature encoder.
	ErrInvalidFeatureInput = errors.New("invalid feature input")

	// ErrTaggerContract is returned when the tagger output does not line up
	// with its input (count or token order).
	ErrTaggerContract = errors.New("tagger contract violation")

	// ErrMalformedMarkup is returned for structural nesting violations in an
	// annotated training file.
	ErrMalformedMarkup = errors.New("malformed training markup")

	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrUnknownLabel      = errors.New("unknown label")
	ErrOverlap           = errors.New("overlapping entities")
)
