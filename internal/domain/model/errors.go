package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the tournament model.
var (
	// ErrValidation reports a missing required field or a malformed value.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTimestamp reports a date or timestamp that does not match its layout.
	ErrInvalidTimestamp = fmt.Errorf("invalid timestamp: %w", ErrValidation)
	// ErrInvalidMatch reports a match without two distinct players.
	ErrInvalidMatch = errors.New("invalid match")
)
