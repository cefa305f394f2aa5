// Package tournament holds the tournament aggregate: players, rounds, the
// points ledger and the round-advance state machine.
package tournament

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/scoring"
)

// Defaults for newly created tournaments.
const (
	DefaultRounds      = 4
	DefaultTimeControl = "rapid"
)

// Phase is the lifecycle state of a tournament.
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Completed
)

func (p Phase) String() string {
	switch p {
	case InProgress:
		return "in progress"
	case Completed:
		return "completed"
	default:
		return "not started"
	}
}

// Tournament aggregates players, rounds and the points ledger. It is not
// safe for concurrent use.
type Tournament struct {
	name           string
	location       string
	description    string
	timeControl    string
	startDate      time.Time
	endDate        time.Time
	numberOfRounds int
	currentRound   int // 0 while unset
	completed      bool

	players []model.PlayerRef
	rounds  []*model.Round
	// adjustments holds explicit ledger corrections on top of match results.
	adjustments map[string]float64

	engine   *pairing.Engine
	byeAward pairing.ByeAward
	now      func() time.Time
}

// New creates a tournament. Name, location and both DD-MM-YYYY dates are required.
func New(name, location, startDate, endDate string, opts ...Option) (*Tournament, error) {
	t := &Tournament{
		name:           strings.TrimSpace(name),
		location:       strings.TrimSpace(location),
		timeControl:    DefaultTimeControl,
		numberOfRounds: DefaultRounds,
		adjustments:    make(map[string]float64),
		byeAward:       pairing.NoBye,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", model.ErrValidation)
	}
	if t.location == "" {
		return nil, fmt.Errorf("%w: tournament location is required", model.ErrValidation)
	}
	if t.numberOfRounds <= 0 {
		return nil, fmt.Errorf("%w: number of rounds must be positive, got %d", model.ErrValidation, t.numberOfRounds)
	}

	var err error
	if t.startDate, err = model.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	if t.endDate, err = model.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}

	if t.engine == nil {
		t.engine = pairing.New()
	}
	return t, nil
}

func (t *Tournament) Name() string        { return t.name }
func (t *Tournament) Location() string    { return t.location }
func (t *Tournament) Description() string { return t.description }
func (t *Tournament) TimeControl() string { return t.timeControl }
func (t *Tournament) NumberOfRounds() int { return t.numberOfRounds }
func (t *Tournament) Completed() bool     { return t.completed }

// CurrentRound returns the number of the latest round, 0 before the first one.
func (t *Tournament) CurrentRound() int { return t.currentRound }

// StartDate returns the start date as DD-MM-YYYY.
func (t *Tournament) StartDate() string { return model.FormatDate(t.startDate) }

// EndDate returns the end date as DD-MM-YYYY.
func (t *Tournament) EndDate() string { return model.FormatDate(t.endDate) }

// Starts returns the structured start date.
func (t *Tournament) Starts() time.Time { return t.startDate }

// Players returns the registered players in registration order.
func (t *Tournament) Players() []model.PlayerRef {
	out := make([]model.PlayerRef, len(t.players))
	copy(out, t.players)
	return out
}

// Rounds returns the rounds in play order. Rounds are owned by the tournament;
// callers record results through RecordResult.
func (t *Tournament) Rounds() []*model.Round {
	out := make([]*model.Round, len(t.rounds))
	copy(out, t.rounds)
	return out
}

// LastRound returns the most recent round, or nil.
func (t *Tournament) LastRound() *model.Round {
	if len(t.rounds) == 0 {
		return nil
	}
	return t.rounds[len(t.rounds)-1]
}

// Phase derives the lifecycle state.
func (t *Tournament) Phase() Phase {
	switch {
	case t.completed:
		return Completed
	case len(t.rounds) == 0:
		return NotStarted
	default:
		return InProgress
	}
}

// HasPlayer reports whether p is registered.
func (t *Tournament) HasPlayer(p model.PlayerRef) bool {
	for _, q := range t.players {
		if q.Is(p) {
			return true
		}
	}
	return false
}

// AddPlayer registers p. Registration is only possible before the first
// round is paired; the new player starts at 0 points.
func (t *Tournament) AddPlayer(p model.PlayerRef) error {
	if p.IsZero() {
		return fmt.Errorf("%w: player identifier is required", model.ErrValidation)
	}
	if phase := t.Phase(); phase != NotStarted {
		return fmt.Errorf("%w: tournament %q is %s", ErrRosterLocked, t.name, phase)
	}
	if t.HasPlayer(p) {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
	}
	t.players = append(t.players, p)
	return nil
}

// AdvanceRound pairs the next round, closes the previous one and appends the
// new round. The tournament completes when the last round is created.
func (t *Tournament) AdvanceRound() (*model.Round, pairing.Result, error) {
	if t.completed {
		return nil, pairing.Result{}, fmt.Errorf("%w: all %d rounds have been played", ErrTournamentCompleted, t.numberOfRounds)
	}

	res := t.engine.Pair(t.players, t.Rankings(), pairing.FromRounds(t.rounds))

	now := t.now()
	r, err := model.NewRoundAt(fmt.Sprintf("Round %d", len(t.rounds)+1), now)
	if err != nil {
		return nil, pairing.Result{}, err
	}
	for _, p := range res.Pairs {
		m, err := model.NewMatch(p.Player1, p.Player2)
		if err != nil {
			return nil, pairing.Result{}, err
		}
		r.AddMatch(m)
	}
	if len(res.Unpaired) > 0 {
		r.Bye = res.Unpaired[0]
		r.ByePoints = t.byeAward(r.Bye)
	}

	if last := t.LastRound(); last != nil {
		last.Close(now)
	}
	t.rounds = append(t.rounds, r)
	t.currentRound = len(t.rounds)
	if t.currentRound >= t.numberOfRounds {
		t.currentRound = t.numberOfRounds
		t.completed = true
	}
	return r, res, nil
}

// Match returns the match at the given zero-based round and board indexes.
func (t *Tournament) Match(roundIndex, matchIndex int) (*model.Match, error) {
	if roundIndex < 0 || roundIndex >= len(t.rounds) {
		return nil, fmt.Errorf("%w: round %d of %d", ErrMatchNotFound, roundIndex+1, len(t.rounds))
	}
	r := t.rounds[roundIndex]
	if matchIndex < 0 || matchIndex >= len(r.Matches) {
		return nil, fmt.Errorf("%w: board %d of %d in %s", ErrMatchNotFound, matchIndex+1, len(r.Matches), r.Name)
	}
	return r.Matches[matchIndex], nil
}

// RecordResult sets the result of a match identified by its indexes.
// Re-entering a result replaces the previous one; the ledger follows.
func (t *Tournament) RecordResult(roundIndex, matchIndex int, o scoring.Outcome) (*model.Match, error) {
	m, err := t.Match(roundIndex, matchIndex)
	if err != nil {
		return nil, err
	}
	t.apply(m, o)
	return m, nil
}

// RecordMatchResult sets the result of m, which must belong to this tournament.
func (t *Tournament) RecordMatchResult(m *model.Match, o scoring.Outcome) error {
	for _, r := range t.rounds {
		for _, candidate := range r.Matches {
			if candidate == m {
				t.apply(m, o)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %v is not part of %q", ErrMatchNotFound, m, t.name)
}

func (t *Tournament) apply(m *model.Match, o scoring.Outcome) {
	m.SetResult(scoring.Points(o))
	if last := t.LastRound(); t.completed && last != nil && last.Pending() == 0 {
		last.Close(t.now())
	}
}
