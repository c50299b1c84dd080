package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitURL(t *testing.T) {
	tests := []struct {
		url    string
		scheme string
		target string
	}{
		{"postgres://u:p@localhost:5432/site?sslmode=disable", "postgres", "u:p@localhost:5432/site"},
		{"postgresql://localhost/site", "postgresql", "localhost/site"},
		{"sqlite://data/site.db", "sqlite", "data/site.db"},
		{"sqlite:///var/lib/site.db", "sqlite", "/var/lib/site.db"},
		{"SQLITE://data/site.db", "sqlite", "data/site.db"},
		{"Postgres://localhost/site?sslmode=disable", "postgres", "localhost/site"},
		{"BADGER://Data/KV", "badger", "Data/KV"},
		{"badger://", "badger", ""},
		{"badger://data/kv", "badger", "data/kv"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			scheme, target, err := splitURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, scheme)
			assert.Equal(t, tt.target, target)
		})
	}

	t.Run("no scheme", func(t *testing.T) {
		_, _, err := splitURL("site.db")
		assert.Error(t, err)
	})

	t.Run("no slashes after scheme", func(t *testing.T) {
		_, _, err := splitURL("sqlite:site.db")
		assert.ErrorContains(t, err, "must start with sqlite://")
	})
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open("mysql://localhost/site", nil)
	assert.ErrorContains(t, err, "unsupported database scheme")
}

func TestOpenBadgerInMemory(t *testing.T) {
	store, err := Open("badger://", nil)
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, store)
	assert.NoError(t, store.Close())
}

func TestOpenUppercaseScheme(t *testing.T) {
	dir := t.TempDir()
	store, err := Open("SQLITE://"+filepath.Join(dir, "site.db"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.FileExists(t, filepath.Join(dir, "site.db"))
	assert.NoDirExists(t, "SQLITE:")
}

func TestNewMigrator(t *testing.T) {
	t.Run("badger has no schema", func(t *testing.T) {
		_, err := NewMigrator("badger://", nil)
		assert.ErrorIs(t, err, ErrNoSchema)
	})

	t.Run("sqlite versions", func(t *testing.T) {
		m, err := NewMigrator("sqlite://"+filepath.Join(t.TempDir(), "nested", "site.db"), nil)
		require.NoError(t, err)

		v, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), v)
		assert.False(t, dirty)

		require.NoError(t, m.Up())
		require.NoError(t, m.Up(), "second up is a no-op")
		v, _, err = m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), v)

		require.NoError(t, m.Down(1))
		v, _, err = m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), v)

		assert.Error(t, m.Down(0))
	})
}

func TestMapSQLError(t *testing.T) {
	assert.NoError(t, mapSQLError(nil))
	assert.ErrorIs(t, mapSQLError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, mapSQLError(&pq.Error{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, mapSQLError(errors.New("constraint failed: UNIQUE constraint failed: blog_posts.slug (2067)")), ErrConflict)

	other := errors.New("connection refused")
	assert.Equal(t, other, mapSQLError(other))
	assert.NotErrorIs(t, mapSQLError(&pq.Error{Code: "23502"}), ErrConflict)
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2024, 3, 4, 5, 6, 7, 123456000, time.UTC)

	inputs := []any{
		want.In(time.FixedZone("EST", -5*3600)),
		"2024-03-04 05:06:07.123456+00:00",
		"2024-03-04 05:06:07.123456 +0000 UTC",
		"2024-03-04T05:06:07.123456Z",
		[]byte("2024-03-04 05:06:07.123456"),
	}
	for _, in := range inputs {
		var got dbTime
		require.NoError(t, got.Scan(in), "%v", in)
		assert.True(t, want.Equal(got.Time), "%v scanned as %v", in, got.Time)
		assert.Equal(t, time.UTC, got.Location())
	}

	var got dbTime
	assert.Error(t, got.Scan("yesterday"))
	assert.Error(t, got.Scan(42))
}
