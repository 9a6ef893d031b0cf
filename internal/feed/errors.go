package feed

import "errors"

// Failure classes. Resolve never returns them; they surface only in logs
// and in the lower-level Fetch/Decode calls.
var (
	ErrNetwork   = errors.New("network failure")
	ErrMalformed = errors.New("malformed payload")
	ErrCacheMiss = errors.New("no cached value")
	ErrEndpoint  = errors.New("endpoint rejected")
)
