// Package runlog persists execution history in a local SQLite database.
// Every completed run is recorded with its backend, circuit fingerprint,
// and measurement counts so past experiments stay queryable.
package runlog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// ErrRunNotFound is returned when a run ID has no recorded entry.
var ErrRunNotFound = errors.New("run not found")

// Entry is one recorded execution.
type Entry struct {
	ID          string
	BackendID   string
	Fingerprint uint64
	Shots       int
	Counts      map[string]int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// Store is a SQLite-backed run history. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	log  *zap.Logger
	open bool
}

// Open creates the database file (and parent directories) if needed and
// applies the schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying run schema: %w", err)
		}
	}

	return &Store{db: db, log: log, open: true}, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	return s.db.Close()
}

// Record inserts a run. A missing ID is filled with a generated UUID and a
// missing CreatedAt with the current time. Returns the stored ID.
func (s *Store) Record(e Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return "", errors.New("run store is closed")
	}
	if e.BackendID == "" {
		return "", fmt.Errorf("%w: run entry needs a backend id", types.ErrValidation)
	}
	if e.Shots < 0 {
		return "", fmt.Errorf("%w: negative shot count %d", types.ErrValidation, e.Shots)
	}
	if e.ID == "" {
		e.ID = newRunID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	counts, err := json.Marshal(e.Counts)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		"INSERT INTO runs (run_id, backend_id, fingerprint, shots, counts, elapsed_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID,
		e.BackendID,
		strconv.FormatUint(e.Fingerprint, 16),
		e.Shots,
		string(counts),
		e.Elapsed.Milliseconds(),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("recording run %s: %w", e.ID, err)
	}

	s.log.Debug("recorded run",
		zap.String("run", e.ID),
		zap.String("backend", e.BackendID),
		zap.Int("shots", e.Shots))
	return e.ID, nil
}

// RecordResult records a backend result for the given circuit.
func (s *Store) RecordResult(c types.Circuit, r types.ExecutionResult) (string, error) {
	return s.Record(Entry{
		BackendID:   r.BackendID,
		Fingerprint: c.Fingerprint(),
		Shots:       r.Shots,
		Counts:      r.Counts,
		Elapsed:     r.Elapsed,
	})
}

// Get retrieves one run by ID.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return Entry{}, errors.New("run store is closed")
	}
	row := s.db.QueryRow(
		"SELECT run_id, backend_id, fingerprint, shots, counts, elapsed_ms, created_at FROM runs WHERE run_id = ?",
		id,
	)
	e, err := hydrateEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Entry{}, fmt.Errorf("getting run %s: %w", id, err)
	}
	return e, nil
}

// List returns the most recent runs, newest first. A backendID filters to
// one backend; empty means all. limit <= 0 means no limit.
func (s *Store) List(backendID string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, errors.New("run store is closed")
	}

	query := "SELECT run_id, backend_id, fingerprint, shots, counts, elapsed_ms, created_at FROM runs"
	args := []any{}
	if backendID != "" {
		query += " WHERE backend_id = ?"
		args = append(args, backendID)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := hydrateEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes runs recorded before the cutoff and returns how many were
// removed.
func (s *Store) Prune(before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, errors.New("run store is closed")
	}
	res, err := s.db.Exec("DELETE FROM runs WHERE created_at < ?",
		before.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("pruned runs", zap.Int64("removed", n))
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateEntry(row scanner) (Entry, error) {
	var e Entry
	var fingerprint, counts, created string
	var elapsedMS int64
	if err := row.Scan(&e.ID, &e.BackendID, &fingerprint, &e.Shots, &counts, &elapsedMS, &created); err != nil {
		return Entry{}, err
	}

	fp, err := strconv.ParseUint(fingerprint, 16, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing fingerprint %q: %w", fingerprint, err)
	}
	e.Fingerprint = fp

	if err := json.Unmarshal([]byte(counts), &e.Counts); err != nil {
		return Entry{}, fmt.Errorf("parsing counts for run %s: %w", e.ID, err)
	}

	e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp for run %s: %w", e.ID, err)
	}
	return e, nil
}

// newRunID generates a UUID v7 run ID, falling back to v4.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
