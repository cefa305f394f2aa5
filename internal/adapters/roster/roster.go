// Package roster is the player directory tournaments register from. Players
// live in a SQLite database whose schema is managed with goose migrations.
package roster

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/okian/chessrecord/internal/domain/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath opens a private in-memory roster.
const MemoryPath = ":memory:"

var chessIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{5}$`)

// Player is a roster entry. ID is the national chess id (AB12345) or a
// generated uuid for unaffiliated players.
type Player struct {
	ID        string
	FirstName string
	LastName  string
	BirthDate string // DD-MM-YYYY, optional
	Club      string
	CreatedAt time.Time
}

// Name returns "First Last".
func (p Player) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Ref returns the tournament reference of p.
func (p Player) Ref() model.PlayerRef {
	return model.PlayerRef{ID: p.ID, Name: p.Name()}
}

// Roster is a SQLite-backed player directory.
type Roster struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// Open opens (creating if needed) the roster database at path and applies
// pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Roster, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create roster dir: %w", ErrRoster, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrRoster, path, err)
	}
	// One connection: ":memory:" databases are per connection and the CLI
	// has a single caller.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	r := &Roster{db: db, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("%w: migrations: %w", ErrRoster, err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("%w: migrations: %w", ErrRoster, err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrRoster, err)
	}
	return nil
}

// Close releases the database.
func (r *Roster) Close() error {
	return r.db.Close()
}

// Add stores p. A blank ID is replaced by a generated one; a supplied ID must
// be a chess id such as AB12345.
func (r *Roster) Add(ctx context.Context, p Player) (Player, error) {
	p.ID = strings.ToUpper(strings.TrimSpace(p.ID))
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Club = strings.TrimSpace(p.Club)

	if p.FirstName == "" || p.LastName == "" {
		return Player{}, fmt.Errorf("%w: first and last name are required", ErrInvalidPlayer)
	}
	if p.BirthDate != "" {
		if _, err := model.ParseDate(p.BirthDate); err != nil {
			return Player{}, fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
		}
	}
	switch {
	case p.ID == "":
		p.ID = r.newID()
	case !chessIDPattern.MatchString(p.ID):
		return Player{}, fmt.Errorf("%w: chess id %q, want two letters and five digits", ErrInvalidPlayer, p.ID)
	}
	p.CreatedAt = r.now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (id, first_name, last_name, birth_date, club, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Club, p.CreatedAt.Unix(),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return Player{}, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	if err != nil {
		return Player{}, fmt.Errorf("%w: insert %s: %w", ErrRoster, p.ID, err)
	}
	return p, nil
}

const selectPlayers = `SELECT id, first_name, last_name, birth_date, club, created_at FROM players`

// Get returns the player with the given id.
func (r *Roster) Get(ctx context.Context, id string) (Player, error) {
	row := r.db.QueryRowContext(ctx, selectPlayers+` WHERE id = ? COLLATE NOCASE`, strings.TrimSpace(id))
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if err != nil {
		return Player{}, fmt.Errorf("%w: get %s: %w", ErrRoster, id, err)
	}
	return p, nil
}

// Find looks a player up by exact id, falling back to a case-insensitive
// partial match on the full name.
func (r *Roster) Find(ctx context.Context, query string) ([]Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if p, err := r.Get(ctx, query); err == nil {
		return []Player{p}, nil
	} else if !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.query(ctx,
		selectPlayers+` WHERE lower(first_name || ' ' || last_name) LIKE ? ESCAPE '\' ORDER BY last_name, first_name, id`,
		pattern,
	)
}

// List returns every player ordered by name.
func (r *Roster) List(ctx context.Context) ([]Player, error) {
	return r.query(ctx, selectPlayers+` ORDER BY last_name, first_name, id`)
}

func (r *Roster) query(ctx context.Context, q string, args ...any) ([]Player, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrRoster, err)
	}
	defer rows.Close()

	var out []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrRoster, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrRoster, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(s scanner) (Player, error) {
	var (
		p       Player
		created int64
	)
	if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Club, &created); err != nil {
		return Player{}, err
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
