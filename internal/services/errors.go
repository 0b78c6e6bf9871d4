package services

import "errors"

// ErrIndexNotReady is returned by ranking and blending operations invoked
// before the first successful snapshot build. It is distinct from an empty
// result set and callers must not conflate the two.
var ErrIndexNotReady = errors.New("discovery index not ready")
