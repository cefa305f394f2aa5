package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
	"github.com/okian/chessrecord/pkg/metrics"
)

// Repository loads and saves whole tournaments through a Store. One
// Repository is created by the binary and handed to whoever needs it.
//
// Tournaments are found by name. Documents are normally stored under
// Key(name), but files written by older versions may use another key; those
// are found by scanning the store and are saved back where they were found.
type Repository struct {
	store          Store
	log            logger.Logger
	tournamentOpts []tournament.Option

	mu   sync.Mutex
	keys map[string]string // folded name -> key the document lives under
}

// New returns a repository over store.
func New(store Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		log:   logger.Nop(),
		keys:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save writes the canonical document of t under the key it was found at, or
// under Key(t.Name()) for a new tournament.
func (r *Repository) Save(ctx context.Context, t *tournament.Tournament) error {
	start := time.Now()
	err := r.save(ctx, t)
	observe("save", start, err)
	return err
}

func (r *Repository) save(ctx context.Context, t *tournament.Tournament) error {
	key, err := r.locate(ctx, t.Name())
	switch {
	case errors.Is(err, ErrNotFound):
		key = Key(t.Name())
		if key == "" {
			return fmt.Errorf("%w: no storage key for tournament %q", ErrPersistence, t.Name())
		}
	case errors.Is(err, ErrKeyConflict):
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	case err != nil:
		return err
	}

	data, err := Encode(FromTournament(t))
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, key, data); err != nil {
		return err
	}
	r.remember(t.Name(), key)
	return nil
}

// Exists reports whether a tournament with this name is stored. It returns
// ErrKeyConflict when the name is free but its key is taken.
func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	_, err := r.locate(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Find loads the tournament with the given name.
func (r *Repository) Find(ctx context.Context, name string) (*tournament.Tournament, error) {
	key, err := r.locate(ctx, name)
	if errors.Is(err, ErrKeyConflict) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return r.Load(ctx, key)
}

// Load reads and restores the tournament stored under key.
func (r *Repository) Load(ctx context.Context, key string) (*tournament.Tournament, error) {
	start := time.Now()
	t, err := r.load(ctx, key)
	observe("load", start, err)
	if err == nil {
		r.remember(t.Name(), key)
	}
	return t, err
}

func (r *Repository) load(ctx context.Context, key string) (*tournament.Tournament, error) {
	data, err := r.store.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	snap, err := doc.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPersistence, key, err)
	}
	t, err := tournament.Restore(snap, r.tournamentOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPersistence, key, err)
	}
	return t, nil
}

// locate returns the key of the document holding the tournament called name.
func (r *Repository) locate(ctx context.Context, name string) (string, error) {
	if key, ok := r.remembered(name); ok {
		return key, nil
	}

	key := Key(name)
	var taken string
	if key != "" {
		stored, err := r.storedName(ctx, key)
		switch {
		case err == nil && sameName(stored, name):
			r.remember(name, key)
			return key, nil
		case err == nil:
			taken = stored
		case !errors.Is(err, ErrNotFound):
			return "", err
		}
	}

	keys, err := r.store.List(ctx)
	if err != nil {
		return "", err
	}
	for _, k := range keys {
		if k == key {
			continue
		}
		stored, err := r.storedName(ctx, k)
		if err != nil {
			// Unreadable documents are reported by LoadAll.
			continue
		}
		if sameName(stored, name) {
			r.remember(name, k)
			return k, nil
		}
	}

	if taken != "" {
		return "", fmt.Errorf("%w: %s holds %q", ErrKeyConflict, key, taken)
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (r *Repository) storedName(ctx context.Context, key string) (string, error) {
	data, err := r.store.Read(ctx, key)
	if err != nil {
		return "", err
	}
	doc, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return doc.Name, nil
}

func (r *Repository) remembered(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[foldName(name)]
	return key, ok
}

func (r *Repository) remember(name, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[foldName(name)] = key
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// LoadAll restores every stored tournament. Unreadable documents are skipped
// and reported together in the returned error; the readable ones are still
// returned.
func (r *Repository) LoadAll(ctx context.Context) ([]*tournament.Tournament, error) {
	keys, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		out      []*tournament.Tournament
		failures []error
		done     int
	)
	for _, key := range keys {
		t, err := r.Load(ctx, key)
		if err != nil {
			r.log.Warn(ctx, "skipping unreadable tournament", logger.String("key", key), logger.Error(err))
			metrics.RecordErrorByComponent("repository", "load")
			failures = append(failures, err)
			continue
		}
		if t.Completed() {
			done++
		}
		out = append(out, t)
	}
	metrics.UpdateTournamentCounts(len(out)-done, done)
	return out, errors.Join(failures...)
}

// Active returns the stored tournaments that are not completed.
func (r *Repository) Active(ctx context.Context) ([]*tournament.Tournament, error) {
	return r.filter(ctx, func(t *tournament.Tournament) bool { return !t.Completed() })
}

// Completed returns the stored tournaments that are completed.
func (r *Repository) Completed(ctx context.Context) ([]*tournament.Tournament, error) {
	return r.filter(ctx, (*tournament.Tournament).Completed)
}

func (r *Repository) filter(ctx context.Context, keep func(*tournament.Tournament) bool) ([]*tournament.Tournament, error) {
	all, err := r.LoadAll(ctx)
	out := make([]*tournament.Tournament, 0, len(all))
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, err
}

func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordPersistence(op, status, float64(time.Since(start).Microseconds())/1000)
}
