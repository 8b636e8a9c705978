package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches and loaders return these
// (optionally wrapped) so services can decide whether to degrade or fail.
//
//   - ErrUnavailable: dependency temporarily unavailable (e.g. breaker open)
//   - ErrInvalidState: resource exists but cannot be used as stored
var (
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
