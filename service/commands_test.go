package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dentalrcm/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand runs HandleCommand with input on stdin and returns the exit code
// and everything written to stdout and stderr.
func runCommand(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldIn, oldOut, oldErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), &out, &errOut
	t.Cleanup(func() { stdin, stdout, stderr = oldIn, oldOut, oldErr })

	code := HandleCommand(args)
	return code, out.String(), errOut.String()
}

func setupSQLite(t *testing.T) string {
	url := "sqlite://" + filepath.Join(t.TempDir(), "site.db")
	t.Setenv("DATABASE_URL", url)
	t.Setenv("LOG_LEVEL", "error")
	return url
}

func setupBadger(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "badger")
	t.Setenv("DATABASE_URL", "badger://"+dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectedOut  string
		expectedErr  string
		expectedExit int
	}{
		{
			name:         "help command",
			args:         []string{"help"},
			expectedOut:  "Usage: dentalrcm [command]",
			expectedExit: 0,
		},
		{
			name:         "version command",
			args:         []string{"version"},
			expectedOut:  "dentalrcm version " + Version,
			expectedExit: 0,
		},
		{
			name:         "unknown command",
			args:         []string{"unknown"},
			expectedErr:  "Unknown command: unknown",
			expectedExit: 1,
		},
		{
			name:         "restore without file",
			args:         []string{"restore"},
			expectedErr:  "Error: backup file path required for restore",
			expectedExit: 1,
		},
		{
			name:         "backup without file",
			args:         []string{"backup"},
			expectedErr:  "Error: backup file path required for backup",
			expectedExit: 1,
		},
		{
			name:         "create-user without name",
			args:         []string{"create-user"},
			expectedErr:  "Error: username required",
			expectedExit: 1,
		},
		{
			name:         "migrate without action",
			args:         []string{"migrate"},
			expectedErr:  "Error: migrate needs one of",
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCommand(t, "", tt.args...)
			assert.Equal(t, tt.expectedExit, code)
			if tt.expectedOut != "" {
				assert.Contains(t, out, tt.expectedOut)
			}
			if tt.expectedErr != "" {
				assert.Contains(t, errOut, tt.expectedErr)
			}
		})
	}
}

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	code, _, errOut := runCommand(t, "", "migrate", "up")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "DATABASE_URL")
}

func TestMigrateCommand(t *testing.T) {
	setupSQLite(t)

	code, out, _ := runCommand(t, "", "migrate", "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Schema version 0")

	code, out, _ = runCommand(t, "", "migrate", "up")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Migrate up complete")

	code, out, _ = runCommand(t, "", "migrate", "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Schema version 2")

	code, _, _ = runCommand(t, "", "migrate", "down", "2")
	require.Equal(t, 0, code)

	code, _, errOut := runCommand(t, "", "migrate", "down", "zero")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid step count")

	code, _, errOut = runCommand(t, "", "migrate", "sideways")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unknown migrate command")
}

func TestMigrateBadgerIsNoop(t *testing.T) {
	setupBadger(t)

	code, out, _ := runCommand(t, "", "migrate", "up")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Nothing to migrate")
}

func TestCreateUser(t *testing.T) {
	url := setupSQLite(t)

	code, out, errOut := runCommand(t, "s3cret-password\n", "create-user", "admin")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Created user "admin"`)

	store, err := repositories.Open(url, nil)
	require.NoError(t, err)
	user, err := store.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("s3cret-password"))
	require.NoError(t, store.Close())

	t.Run("duplicate", func(t *testing.T) {
		code, _, errOut := runCommand(t, "another-password\n", "create-user", "admin")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "already exists")
	})

	t.Run("short password", func(t *testing.T) {
		code, _, errOut := runCommand(t, "short\n", "create-user", "someone")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "password")
	})

	t.Run("no input", func(t *testing.T) {
		code, _, errOut := runCommand(t, "", "create-user", "someone")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "read password")
	})
}

func TestBackupRestore(t *testing.T) {
	setupBadger(t)
	backupFile := filepath.Join(t.TempDir(), "site.bak")

	code, _, errOut := runCommand(t, "long-enough-password\n", "create-user", "admin")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := runCommand(t, "", "backup", backupFile)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Database backed up successfully")
	assert.FileExists(t, backupFile)

	t.Run("restore into a fresh database", func(t *testing.T) {
		dir := setupBadger(t)

		code, out, errOut := runCommand(t, "y\n", "restore", backupFile)
		require.Equal(t, 0, code, errOut)
		assert.Contains(t, out, "Database restored successfully")

		store, err := repositories.OpenBadger(dir)
		require.NoError(t, err)
		defer store.Close()
		_, err = store.GetUserByUsername(context.Background(), "admin")
		assert.NoError(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		setupBadger(t)

		code, out, _ := runCommand(t, "n\n", "restore", backupFile)
		assert.Equal(t, 1, code)
		assert.Contains(t, out, "Operation cancelled")
	})

	t.Run("missing file", func(t *testing.T) {
		code, _, errOut := runCommand(t, "y\n", "restore", filepath.Join(t.TempDir(), "nope"))
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "Backup file does not exist")
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.bak")
		require.NoError(t, os.WriteFile(empty, nil, 0o644))

		code, _, errOut := runCommand(t, "y\n", "restore", empty)
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "Backup file is empty")
	})

	t.Run("sql databases are refused", func(t *testing.T) {
		setupSQLite(t)

		code, _, errOut := runCommand(t, "", "backup", backupFile)
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "only support badger://")
	})
}
