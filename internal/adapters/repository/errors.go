package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	// ErrPersistence reports an I/O or parse failure. Callers keep running
	// without persistence when they see it.
	ErrPersistence  = errors.New("persistence error")
	ErrNotFound     = errors.New("tournament document not found")
	ErrUnknownShape = errors.New("unrecognised tournament document")
	// ErrKeyConflict reports a name whose storage key already holds a
	// differently named tournament.
	ErrKeyConflict = errors.New("storage key used by another tournament")
)
