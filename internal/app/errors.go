package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrTournamentExists = errors.New("tournament already exists")
	ErrAmbiguousPlayer  = errors.New("player query matches more than one roster entry")
	ErrNoRounds         = errors.New("no rounds have been paired yet")
)
