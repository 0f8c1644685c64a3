package sentinel

import "errors"

// Sentinel errors for store-level facts. Stores return these (optionally
// wrapped) so callers can branch on the condition without string matching.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: operation would violate a uniqueness or reference rule
// - ErrInvalidState: entity in wrong state for requested transition
//
// Ordinary "no results" from a list query is an empty slice, never an error.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
