package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	// BackupSuffix is appended to the store path to derive the backup path.
	BackupSuffix = ".bak"

	// timeLayout matches SQLite's CURRENT_TIMESTAMP, so stored dates sort
	// lexically in chronological order. Dates are always written in UTC.
	timeLayout = "2006-01-02 15:04:05"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrNoBackup is returned by Restore when no backup file is present.
	ErrNoBackup = errors.New("no backup found")
	// ErrNoBackingFile is returned by Backup and Restore for in-memory stores.
	ErrNoBackingFile = errors.New("store has no backing file")
)

// Store owns the connection to the SQLite file holding users,
// transactions and budgets.
type Store struct {
	db   *sql.DB
	path string
	loc  *time.Location
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the time zone used for calendar month and year boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens the store at path, creating and migrating it if needed.
// Use ":memory:" for a throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path: path,
		loc:  time.Local,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) open() error {
	conn, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	// One session drives one connection. This also keeps ":memory:" stores
	// alive for the lifetime of the pool.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	s.db = conn
	return nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Path returns the path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Now returns the store clock's current time in the store's location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the time zone used for calendar boundaries.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) inMemory() bool {
	return s.path == "" || s.path == ":memory:" || strings.Contains(s.path, "mode=memory")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *Store) parseTime(v string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", v, err)
	}
	return t.In(s.loc), nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
