package eligibility

import "errors"

// Pipeline error kinds. Components wrap these with detail; the service maps
// them to client-facing codes.
var (
	ErrArtifactsUnavailable = errors.New("model artifacts unavailable")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownFeature       = errors.New("unknown feature")
	ErrSchemaMismatch       = errors.New("schema mismatch")
	ErrInvalidInput         = errors.New("invalid input")
)
