// Package store is ticketbot's durable key/value store.
//
// The whole state is one flat JSON object. It lives in memory as a map
// and on disk as a single row of a SQLite database (WAL mode, FULL
// sync). Every mutation rewrites the entire document before returning,
// so after Set or Delete returns the in-memory map and the row on disk
// hold the same mapping. There is no per-key versioning and no partial
// write; a failed write rolls the in-memory change back.
//
// The mutex only keeps the map safe for the Go runtime. It is not a
// transaction: two callers doing get-then-set on the same key still race
// and the later write wins.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// rootDocument is the row name holding the mapping.
const rootDocument = "root"

// Store holds the mapping in memory and mirrors it to SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	// onPersist is called after each successful whole-document write.
	onPersist func()

	mu  sync.Mutex
	doc map[string]json.RawMessage
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithPersistHook registers fn to run after every successful write.
func WithPersistHook(fn func()) Option {
	return func(s *Store) { s.onPersist = fn }
}

// New opens (or creates) the database at path and loads the mapping.
// A missing or unreadable document yields an empty mapping.
func New(path string, opts ...Option) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(FULL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.doc = s.load()
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (s *Store) load() map[string]json.RawMessage {
	var body string
	err := s.db.QueryRow(`SELECT body FROM documents WHERE name = ?`, rootDocument).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]json.RawMessage{}
	}
	if err != nil {
		s.logger.Warn("store: cannot read document, starting empty", "error", err)
		return map[string]json.RawMessage{}
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		s.logger.Warn("store: document is not a JSON object, starting empty", "error", err)
		return map[string]json.RawMessage{}
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc
}

// persistLocked writes the whole mapping. Caller holds s.mu.
func (s *Store) persistLocked() error {
	body, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err = retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
			rootDocument, string(body), now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if s.onPersist != nil {
		s.onPersist()
	}
	return nil
}

// Get returns the raw JSON stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc[key]
	if !ok {
		return nil, false
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, true
}

// Lookup decodes the value under key into dst. It reports false, with a
// nil error, when the key is absent.
func (s *Store) Lookup(key string, dst any) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.doc[key]
	return ok
}

// Set stores value under key and persists the whole mapping.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc[key]
	s.doc[key] = raw
	if err := s.persistLocked(); err != nil {
		if had {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		return err
	}
	return nil
}

// Delete removes key and persists the whole mapping. Deleting an absent
// key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.doc[key]
	if !had {
		return nil
	}
	delete(s.doc, key)
	if err := s.persistLocked(); err != nil {
		s.doc[key] = prev
		return err
	}
	return nil
}

// Merge sets every key in values with a single whole-document write.
// Keys not named in values are left as they are.
func (s *Store) Merge(values map[string]json.RawMessage) error {
	encoded := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		encoded[k] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := make(map[string]json.RawMessage, len(s.doc))
	for k, v := range s.doc {
		backup[k] = v
	}
	for k, v := range encoded {
		s.doc[k] = v
	}
	if err := s.persistLocked(); err != nil {
		s.doc = backup
		return err
	}
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.doc))
	for k := range s.doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the whole mapping.
func (s *Store) Snapshot() map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]json.RawMessage, len(s.doc))
	for k, v := range s.doc {
		c := make(json.RawMessage, len(v))
		copy(c, v)
		out[k] = c
	}
	return out
}
