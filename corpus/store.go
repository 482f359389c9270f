package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure Go driver

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// Entry is one stored counterexample.
type Entry struct {
	Created time.Time
	ID      string
	Module  string
	Test    string
	Message string
	Input   []value.Value
	Seed    uint64
	Hits    int
}

// Store is a counterexample database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Load("open corpus "+path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Load("open corpus "+path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Load("migrate corpus "+path, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS counterexamples (
		id TEXT PRIMARY KEY,
		module TEXT NOT NULL,
		test TEXT NOT NULL,
		input TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		seed INTEGER NOT NULL DEFAULT 0,
		hits INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		UNIQUE (module, test, input)
	);

	CREATE INDEX IF NOT EXISTS idx_counterexamples_test ON counterexamples(module, test);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a counterexample and returns its id. Saving a row that is
// already stored bumps its hit count and keeps the original id.
func (s *Store) Save(ctx context.Context, e Entry) (string, error) {
	input, err := encodeInput(e.Input)
	if err != nil {
		return "", err
	}

	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := e.Created
	if created.IsZero() {
		created = time.Now()
	}

	query := `
	INSERT INTO counterexamples (id, module, test, input, message, seed, hits, created_at)
	VALUES (?, ?, ?, ?, ?, ?, 1, ?)
	ON CONFLICT(module, test, input) DO UPDATE SET
		message = excluded.message,
		seed = excluded.seed,
		hits = hits + 1
	RETURNING id
	`
	var stored string
	err = s.db.QueryRowContext(ctx, query,
		id, e.Module, e.Test, input, e.Message, int64(e.Seed), created.UTC().Format(time.RFC3339Nano),
	).Scan(&stored)
	if err != nil {
		return "", errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "save counterexample for "+e.Test)
	}

	Logger().Debug("counterexample saved",
		zap.String("id", stored),
		zap.String("test", e.Test))
	return stored, nil
}

// Seeds returns the stored rows of a test, oldest first.
func (s *Store) Seeds(ctx context.Context, module, test string) ([][]value.Value, error) {
	entries, err := s.query(ctx, `WHERE module = ? AND test = ?`, module, test)
	if err != nil {
		return nil, err
	}
	rows := make([][]value.Value, len(entries))
	for i, e := range entries {
		rows[i] = e.Input
	}
	return rows, nil
}

// List returns every entry of a module, or of all modules when module is "".
func (s *Store) List(ctx context.Context, module string) ([]Entry, error) {
	if module == "" {
		return s.query(ctx, "")
	}
	return s.query(ctx, `WHERE module = ?`, module)
}

// Get returns one entry.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	entries, err := s.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, errors.NotFound(errors.PhaseStore, "counterexample", id)
	}
	return entries[0], nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM counterexamples WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "delete counterexample "+id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound(errors.PhaseStore, "counterexample", id)
	}
	return nil
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]Entry, error) {
	query := `
	SELECT id, module, test, input, message, seed, hits, created_at
	FROM counterexamples ` + where + `
	ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "query corpus")
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			input   string
			seed    int64
			created string
		)
		if err := rows.Scan(&e.ID, &e.Module, &e.Test, &input, &e.Message, &seed, &e.Hits, &created); err != nil {
			return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "scan corpus row")
		}
		e.Seed = uint64(seed)
		e.Created, _ = time.Parse(time.RFC3339Nano, created)

		e.Input, err = decodeInput(input)
		if err != nil {
			Logger().Warn("skipping undecodable counterexample",
				zap.String("id", e.ID),
				zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "read corpus")
	}
	return entries, nil
}

func encodeInput(input []value.Value) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "encode input row")
	}
	return string(data), nil
}

func decodeInput(s string) ([]value.Value, error) {
	var input []value.Value
	if err := json.Unmarshal([]byte(s), &input); err != nil {
		return nil, err
	}
	return input, nil
}
