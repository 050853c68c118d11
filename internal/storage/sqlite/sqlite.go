// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const (
	defaultReadPoolSize  = 4
	defaultRetryAttempts = 5
	defaultRetryBase     = 20 * time.Millisecond
	busyTimeoutMillis    = 5000
)

// Store implements storage.Store using SQLite.
//
// Writes go through a pool of exactly one connection whose transactions begin
// with BEGIN IMMEDIATE, so every ledger read-modify-write holds the database
// write lock from its first read. Reads use a separate pool; in WAL mode each
// read transaction sees a single consistent snapshot.
type Store struct {
	writeDB *sql.DB
	readDB  *sql.DB

	readPoolSize  int
	retryAttempts uint64
	retryBase     time.Duration
	onRetry       func()
}

// Option configures a Store.
type Option func(*Store)

// WithReadPoolSize sets the number of read connections (default 4).
func WithReadPoolSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.readPoolSize = n
		}
	}
}

// WithRetryAttempts sets how many times a write transaction is retried after
// a lock conflict before ErrBusy is returned (default 5).
func WithRetryAttempts(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.retryAttempts = uint64(n)
		}
	}
}

// WithRetryHook registers a callback invoked before each retried write transaction.
func WithRetryHook(fn func()) Option {
	return func(s *Store) { s.onRetry = fn }
}

// New creates a new Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*Store, error) {
	s := &Store{
		readPoolSize:  defaultReadPoolSize,
		retryAttempts: defaultRetryAttempts,
		retryBase:     defaultRetryBase,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	writeDB, err := open(dbPath, true)
	if err != nil {
		return nil, err
	}
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)

	// Migrations must run before the read pool opens so that query_only
	// connections never observe a half-built schema.
	if err := runMigrations(writeDB); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	readDB, err := open(dbPath, false)
	if err != nil {
		writeDB.Close()
		return nil, err
	}
	readDB.SetMaxOpenConns(s.readPoolSize)
	readDB.SetMaxIdleConns(s.readPoolSize)

	s.writeDB = writeDB
	s.readDB = readDB
	return s, nil
}

func open(path string, write bool) (*sql.DB, error) {
	mode := "read"
	if write {
		mode = "write"
	}

	db, err := sql.Open("sqlite", buildDSN(path, write))
	if err != nil {
		return nil, fmt.Errorf("failed to open database (%s): %w", mode, err)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database (%s): %w", mode, err)
	}
	return db, nil
}

// buildDSN constructs a modernc SQLite DSN. Pragmas are applied to every new
// connection in the pool.
func buildDSN(path string, write bool) string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "foreign_keys(1)")
	if write {
		params.Set("_txlock", "immediate")
	} else {
		params.Add("_pragma", "query_only(1)")
	}
	return "file:" + path + "?" + params.Encode()
}

// Close closes both connection pools.
func (s *Store) Close() error {
	return errors.Join(s.readDB.Close(), s.writeDB.Close())
}

// WriteTx runs fn in a write transaction, retrying with exponential backoff
// while SQLite reports the database as busy or locked.
func (s *Store) WriteTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	backoff := retry.WithMaxRetries(s.retryAttempts, retry.NewExponential(s.retryBase))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 && s.onRetry != nil {
			s.onRetry()
		}
		attempt++

		err := runTx(ctx, s.writeDB, fn)
		if isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if isBusy(err) {
		return fmt.Errorf("%w: %v", storage.ErrBusy, err)
	}
	return err
}

// ReadTx runs fn in a read transaction on the read pool.
func (s *Store) ReadTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	return runTx(ctx, s.readDB, fn)
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx storage.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isBusy reports whether err is a lock conflict worth retrying.
func isBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// sqlTx implements storage.Tx on top of a *sql.Tx.
type sqlTx struct {
	tx *sql.Tx
}

var _ storage.Tx = (*sqlTx)(nil)
