package apperrors

import "errors"

// Sentinel errors for the failure classes that cross component boundaries.
// Callers classify with errors.Is; call sites attach detail with
// fmt.Errorf("%w: ...", ...).
var (
	// ErrConfiguration marks missing or invalid vendor credentials. Fatal at
	// process start; nothing is served without them.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpload marks a blob storage failure. The upload pipeline halts on it.
	ErrUpload = errors.New("upload error")

	// ErrPersistence marks a session store write failure.
	ErrPersistence = errors.New("persistence error")

	// ErrSearch marks a search index failure. Callers decide between failing
	// the request and falling back to an empty result set.
	ErrSearch = errors.New("search error")
)
