package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrRoster         = errors.New("roster error")
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrDuplicateID    = errors.New("player id already exists")
)
