// Package receipts keeps a SQLite log of ingress outcomes so the host can
// ask what happened to a push after the fact. Payloads are never stored.
package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"chipview/internal/app"
)

var ErrNotFound = errors.New("receipt not found")

// Receipt is the acknowledgment sent back to the host for one push.
type Receipt struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Outcome string    `json:"outcome"`
	OK      bool      `json:"ok"`
	Shapes  int       `json:"shapes"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

func FromResult(r app.Result) Receipt {
	return Receipt{
		ID:      r.ID.String(),
		Source:  r.Source,
		Outcome: r.Outcome.String(),
		OK:      r.OK(),
		Shapes:  r.Shapes,
		Error:   r.ErrString(),
		At:      r.At.UTC(),
	}
}

const schema = `CREATE TABLE IF NOT EXISTS receipts (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	outcome TEXT NOT NULL,
	shapes INTEGER NOT NULL,
	error TEXT NOT NULL,
	at_millis INTEGER NOT NULL
)`

// Store persists receipts in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the receipt store at dsn (a file path or ":memory:") and
// creates the table if needed.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("receipts dsn is required")
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection, so ":memory:" is a single database
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create receipts table: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record implements app.Recorder.
func (s *Store) Record(ctx context.Context, r app.Result) error {
	rc := FromResult(r)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO receipts (id, source, outcome, shapes, error, at_millis) VALUES (?, ?, ?, ?, ?, ?)`,
		rc.ID, rc.Source, rc.Outcome, rc.Shapes, rc.Error, toMillis(rc.At))
	if err != nil {
		return fmt.Errorf("insert receipt %s: %w", rc.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, source, outcome, shapes, error, at_millis FROM receipts`

// Get returns the receipt with the given id.
func (s *Store) Get(ctx context.Context, id string) (Receipt, error) {
	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rc, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rc, err
}

// Last returns the most recent receipt, if any.
func (s *Store) Last(ctx context.Context) (Receipt, bool, error) {
	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` ORDER BY at_millis DESC, rowid DESC LIMIT 1`)
	rc, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, err
	}
	return rc, true, nil
}

func scan(row *sql.Row) (Receipt, error) {
	var rc Receipt
	var at int64
	if err := row.Scan(&rc.ID, &rc.Source, &rc.Outcome, &rc.Shapes, &rc.Error, &at); err != nil {
		return Receipt{}, err
	}
	rc.At = fromMillis(at)
	rc.OK = rc.Outcome == app.OutcomeDelivered.String()
	return rc, nil
}
