package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore implements Storage on PostgreSQL or SQLite. Queries are written
// with "?" placeholders and rebound for the driver in use.
type SQLStore struct {
	db *sqlx.DB
}

// OpenPostgres connects to PostgreSQL using a lib/pq connection string.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return newSQLStore(db)
}

// OpenSQLite opens (or creates) the SQLite database at path, creating the
// parent directory if needed.
func OpenSQLite(path string) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("open sqlite: empty path")
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so every pooled connection gets them. WAL lets
	// readers run alongside the single writer; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY. _time_format=sqlite stores
	// timestamps as sortable text.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_time_format=sqlite"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return newSQLStore(db)
}

func newSQLStore(db *sqlx.DB) (*SQLStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", db.DriverName(), err)
	}
	return &SQLStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) get(ctx context.Context, dest any, query string, args ...any) error {
	return mapSQLError(s.db.GetContext(ctx, dest, s.db.Rebind(query), args...))
}

func (s *SQLStore) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return mapSQLError(s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...))
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return mapSQLError(err)
}

// now returns the timestamp written for createdAt/updatedAt. PostgreSQL keeps
// microseconds, so truncate to keep both dialects returning the same value.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// dbTime scans timestamps from drivers that return time.Time (lib/pq) as well
// as ones that may hand back text (SQLite RETURNING columns).
type dbTime struct {
	time.Time
}

var dbTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognised format %q", s)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
