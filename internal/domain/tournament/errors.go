package tournament

import "errors"

// Sentinel kinds for tournament errors.
var (
	ErrRosterLocked        = errors.New("roster is locked once the first round is paired")
	ErrDuplicatePlayer     = errors.New("player already registered")
	ErrTournamentCompleted = errors.New("tournament is completed")
	ErrMatchNotFound       = errors.New("match not found")
	ErrInconsistentState   = errors.New("inconsistent tournament state")
)
