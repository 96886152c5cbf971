// Package store is the daylog entity store.
//
// It uses SQLite (modernc.org/sqlite, no cgo) with FTS5 full-text indexes
// and a single connection, so every statement and transaction is
// serialized. That gives the per-record atomic read-modify-write the
// services rely on without any in-process locking.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sqlx.Open

// timeNow is replaced in tests to control timestamps.
var timeNow = time.Now

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	// DataDir holds daylog.db. Ignored when InMemory is set.
	DataDir string
	// InMemory opens a private in-memory database (tests, dry runs).
	InMemory bool
	// MaxTodoResults caps todo search results. Never above 20.
	MaxTodoResults int
	// MaxNoteResults caps merged note search results. Never above 10.
	MaxNoteResults int
}

const (
	hardTodoSearchCap = 20
	hardNoteSearchCap = 10
)

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:        filepath.Join(home, ".daylog"),
		MaxTodoResults: hardTodoSearchCap,
		MaxNoteResults: hardNoteSearchCap,
	}
}

// TodoCap is the effective todo search limit.
func (c Config) TodoCap() int {
	if c.MaxTodoResults <= 0 || c.MaxTodoResults > hardTodoSearchCap {
		return hardTodoSearchCap
	}
	return c.MaxTodoResults
}

// NoteCap is the effective note search limit.
func (c Config) NoteCap() int {
	if c.MaxNoteResults <= 0 || c.MaxNoteResults > hardNoteSearchCap {
		return hardNoteSearchCap
	}
	return c.MaxNoteResults
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed entity store. A Store returned by WithTx is
// bound to one transaction; all other Stores share the pooled connection.
type Store struct {
	db    *sqlx.DB
	ext   sqlx.ExtContext
	inTx  bool
	cfg   Config
	hooks storeHooks
	ids   *idSource
}

type storeHooks struct {
	exec    func(ctx context.Context, ext sqlx.ExecerContext, query string, args ...any) (sql.Result, error)
	beginTx func(ctx context.Context, db *sqlx.DB) (*sqlx.Tx, error)
	commit  func(tx *sqlx.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(ctx context.Context, ext sqlx.ExecerContext, query string, args ...any) (sql.Result, error) {
			return ext.ExecContext(ctx, query, args...)
		},
		beginTx: func(ctx context.Context, db *sqlx.DB) (*sqlx.Tx, error) {
			return db.BeginTxx(ctx, nil)
		},
		commit: func(tx *sqlx.Tx) error {
			return tx.Commit()
		},
	}
}

// idSource hands out monotonic ULIDs. ulid's monotonic reader is not safe
// for concurrent use, hence the mutex.
type idSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.New(rand.NewSource(timeNow().UnixNano())), 0)}
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(timeNow()), s.entropy).String()
}

// New opens (or creates) the store described by cfg and runs migrations.
func New(cfg Config) (*Store, error) {
	dsn := ":memory:"
	if !cfg.InMemory {
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
		dsn = filepath.Join(cfg.DataDir, "daylog.db")
	}

	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection: serializes writers and keeps :memory: databases whole.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	if !cfg.InMemory {
		pragmas = append([]string{"PRAGMA journal_mode = WAL"}, pragmas...)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, ext: db, cfg: cfg, hooks: defaultStoreHooks(), ids: newIDSource()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Config returns the configuration the store was opened with.
func (s *Store) Config() Config { return s.cfg }

// NewID returns a fresh, time-sortable record id.
func (s *Store) NewID() string { return s.ids.next() }

// WithTx runs fn against a Store bound to a single transaction, committing
// when fn returns nil. Calling WithTx on a transaction-bound Store reuses it.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.hooks.beginTx(ctx, s.db)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := *s
	txStore.ext = tx
	txStore.inTx = true

	if err := fn(&txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := s.hooks.commit(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, s.ext, query, args...)
	}
	return s.ext.ExecContext(ctx, query, args...)
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.ext, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.ext, dest, query, args...)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// Now returns the current time in the store's timestamp format.
func Now() string {
	return timeNow().UTC().Format(time.RFC3339Nano)
}

// NowOrder returns a monotonic, timestamp-based sort key.
func NowOrder() int64 {
	return timeNow().UnixNano()
}

// Truncate shortens s to at most max runes, appending "…" when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// sanitizeFTS quotes each term so user input cannot inject FTS5 syntax.
func sanitizeFTS(query string) string {
	var terms []string
	for _, w := range strings.Fields(query) {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " ")
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
