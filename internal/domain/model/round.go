package model

import (
	"fmt"
	"strings"
	"time"
)

// Round is an ordered collection of matches played between two timestamps.
type Round struct {
	Name    string
	Start   time.Time
	End     time.Time // zero while the round is open
	Matches []*Match

	// Bye is the player left without an opponent, if any, and the points the
	// bye policy credited them.
	Bye       PlayerRef
	ByePoints float64
}

// NewRound builds a round from exchanged strings. The start is required; an
// empty end leaves the round open. Use NewRoundAt for a round starting now.
func NewRound(name, start, end string) (*Round, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: round name is required", ErrValidation)
	}
	if strings.TrimSpace(start) == "" {
		return nil, fmt.Errorf("%w: round %q has no start time", ErrInvalidTimestamp, name)
	}
	t, err := ParseTimestamp(start)
	if err != nil {
		return nil, err
	}
	r := &Round{Name: name, Start: t}

	if end != "" {
		t, err := ParseTimestamp(end)
		if err != nil {
			return nil, err
		}
		r.End = t
	}
	return r, nil
}

// NewRoundAt builds an open round starting at start, truncated to the minute
// so it survives a round trip through TimestampLayout.
func NewRoundAt(name string, start time.Time) (*Round, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: round name is required", ErrValidation)
	}
	return &Round{Name: name, Start: start.Truncate(time.Minute)}, nil
}

// AddMatch appends m.
func (r *Round) AddMatch(m *Match) {
	r.Matches = append(r.Matches, m)
}

// Close records the end time unless it is already set.
func (r *Round) Close(at time.Time) {
	if r.End.IsZero() {
		r.End = at.Truncate(time.Minute)
	}
}

// Closed reports whether an end time is recorded.
func (r *Round) Closed() bool { return !r.End.IsZero() }

// StartString returns the start timestamp in exchange format.
func (r *Round) StartString() string { return FormatTimestamp(r.Start) }

// EndString returns the end timestamp in exchange format, or "" while open.
func (r *Round) EndString() string {
	if r.End.IsZero() {
		return ""
	}
	return FormatTimestamp(r.End)
}

// Pending counts matches still waiting for a result.
func (r *Round) Pending() int {
	n := 0
	for _, m := range r.Matches {
		if !m.Played() {
			n++
		}
	}
	return n
}

func (r *Round) String() string { return r.Name }
