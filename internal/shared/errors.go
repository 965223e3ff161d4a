package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDataRetrieval indicates a failed fetch from the storage layer.
	// Statement generation aborts entirely when it occurs; no partial
	// statement is ever returned.
	ErrDataRetrieval = errors.New("data retrieval failed")
	// ErrInvalidPeriod indicates a malformed statement period.
	ErrInvalidPeriod = errors.New("statement period invalid")
)
