package store

import "errors"

var (
	// ErrInvalidEntity is returned when an entity or change is missing the
	// required identifier. The operation fails fast; no store access is made.
	ErrInvalidEntity = errors.New("hotcore: entity must carry an identifier")

	// ErrNotFound is returned when a required linkage does not exist, such as
	// the parent pointer in [Hierarchy.Parent]. A present-but-unpopulated
	// entity is not an error; it is returned as a tombstone.
	ErrNotFound = errors.New("hotcore: not found")

	// ErrConcurrencyExhausted is returned when the optimistic retry bound is
	// exceeded on Apply or Delete. The caller's change was not committed and
	// must be retried by the caller.
	ErrConcurrencyExhausted = errors.New("hotcore: optimistic retry bound exceeded")
)
