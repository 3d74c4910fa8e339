/*
Package sqlite provides a SQLite-backed meal.Repository.

PURPOSE:
  Reads meal-plan rows from the meals table. The table is populated by
  another system; this package never writes to it outside of tests and
  the dev-only schema bootstrap.

KEY TABLE:
  meals(sequenceId, mealId, date, breakfast, lunch, dinner)
  date is unique and stored as TEXT in YYYY-MM-DD form, so BETWEEN on the
  raw strings yields calendar ranges.

CONNECTIONS:
  Every lookup checks out a dedicated *sql.Conn from the database/sql pool
  and returns it before the call ends, on success and error paths alike.
  No connection state is shared between requests. The pool bounds how many
  connections are open at once (Options.MaxOpenConns).

  ":memory:" databases are private to a single connection, so the pool is
  pinned to one connection for them.

READ-ONLY:
  Options.ReadOnly opens the file with mode=ro. The server uses this by
  default; tests open read-write to insert fixtures.

USAGE:
  store, err := sqlite.New("./db.db3", sqlite.Options{ReadOnly: true})
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  rec, err := store.FindByDate(ctx, "2024-01-15")

SEE ALSO:
  - meal/types.go: Repository interface
  - meal/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dimigomeal/dimigomeal-api/meal"
)

const defaultBusyTimeoutMS = 5000

// Options controls how the database is opened.
type Options struct {
	ReadOnly     bool
	MaxOpenConns int // 0 = database/sql default (unlimited)
}

// Store implements meal.Repository using SQLite.
type Store struct {
	db *sql.DB
}

// New opens the SQLite database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	return &Store{db: db}, nil
}

func dsn(dbPath string, opts Options) string {
	params := []string{fmt.Sprintf("_busy_timeout=%d", defaultBusyTimeoutMS)}
	if opts.ReadOnly && dbPath != ":memory:" {
		params = append(params, "mode=ro")
	}
	return "file:" + dbPath + "?" + strings.Join(params, "&")
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database file can be reached and the meals table exists.
func (s *Store) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		var n int
		err := conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'meals'`).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("meals table missing")
		}
		return nil
	})
}

// EnsureSchema creates the meals table if it does not exist.
// Used by tests and the --init-schema dev flag.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meals (
		sequenceId INTEGER PRIMARY KEY AUTOINCREMENT,
		mealId INTEGER NOT NULL DEFAULT 0,
		date TEXT NOT NULL UNIQUE,
		breakfast TEXT NOT NULL DEFAULT '',
		lunch TEXT NOT NULL DEFAULT '',
		dinner TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveMeal inserts or replaces the row for r.Date. Test/dev fixture helper;
// the HTTP API has no write path.
func (s *Store) SaveMeal(ctx context.Context, r meal.Record) error {
	query := `
		INSERT INTO meals (mealId, date, breakfast, lunch, dinner)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			mealId = excluded.mealId,
			breakfast = excluded.breakfast,
			lunch = excluded.lunch,
			dinner = excluded.dinner
	`
	_, err := s.db.ExecContext(ctx, query, r.MealID, r.Date, r.Breakfast, r.Lunch, r.Dinner)
	if err != nil {
		return fmt.Errorf("failed to save meal %s: %w", r.Date, err)
	}
	return nil
}

// =============================================================================
// MEAL REPOSITORY (meal.Repository interface)
// =============================================================================

// FindByDate returns the row for an exact date. If several rows share the
// date, the one with the lowest sequenceId wins.
func (s *Store) FindByDate(ctx context.Context, date string) (*meal.Record, error) {
	var rec meal.Record
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, `
			SELECT sequenceId, mealId, date, breakfast, lunch, dinner
			FROM meals
			WHERE date = ?
			ORDER BY sequenceId
			LIMIT 1
		`, date)
		return scanMeal(row, &rec)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, meal.ErrMealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find meal %s: %v", meal.ErrStorage, date, err)
	}
	return &rec, nil
}

// FindByDateRange returns rows with start <= date <= end, ascending by date.
func (s *Store) FindByDateRange(ctx context.Context, start, end string) ([]meal.Record, error) {
	records := []meal.Record{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT sequenceId, mealId, date, breakfast, lunch, dinner
			FROM meals
			WHERE date BETWEEN ? AND ?
			ORDER BY date ASC, sequenceId ASC
		`, start, end)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec meal.Record
			if err := scanMeal(rows, &rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("%w: find meals %s..%s: %v", meal.ErrStorage, start, end, err)
	}
	return records, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// withConn checks out a connection for the duration of fn and always
// returns it to the pool.
func (s *Store) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(sc scanner, rec *meal.Record) error {
	var breakfast, lunch, dinner sql.NullString
	var mealID sql.NullInt64
	if err := sc.Scan(&rec.SequenceID, &mealID, &rec.Date, &breakfast, &lunch, &dinner); err != nil {
		return err
	}
	rec.MealID = mealID.Int64
	rec.Breakfast = breakfast.String
	rec.Lunch = lunch.String
	rec.Dinner = dinner.String
	return nil
}
