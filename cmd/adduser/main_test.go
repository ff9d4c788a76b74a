package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker/internal/logging"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage"
)

// isolate moves the test into an empty directory with no store overrides
// and a cheap bcrypt cost.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DB_PATH", "")
	t.Setenv("FINANCE_DB_PATH", "")
	t.Setenv("FINANCE_BCRYPT_COST", "4")
	return dir
}

type result struct {
	err    error
	stdout string
	stderr string
}

func adduser(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

// login checks the account through the same service cmd/finance uses.
func login(t *testing.T, dbPath, username, password string) {
	t.Helper()
	store, err := storage.Open(dbPath, storage.WithLocation(time.UTC))
	require.NoError(t, err)
	defer store.Close()

	user, err := service.New(store, logging.Discard()).Authenticate(context.Background(), username, password)
	require.NoError(t, err)
	assert.Equal(t, username, user.Username)
}

func TestRun_CreatesLoginableUser(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "explicit.db")

	r := adduser("", "-user", "alice", "-password", "secret", "-db", dbPath)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "User alice created successfully with ID 1")
	login(t, dbPath, "alice", "secret")
}

func TestRun_UsesConfiguredStore(t *testing.T) {
	dir := isolate(t)

	cases := []struct {
		name  string
		setup func(t *testing.T) string
		args  []string
	}{
		{
			name: "FINANCE_DB_PATH",
			setup: func(t *testing.T) string {
				p := filepath.Join(dir, "configured.db")
				t.Setenv("FINANCE_DB_PATH", p)
				return p
			},
		},
		{
			name: "legacy DB_PATH",
			setup: func(t *testing.T) string {
				p := filepath.Join(dir, "legacy.db")
				t.Setenv("DB_PATH", p)
				return p
			},
		},
		{
			name: "config file",
			setup: func(t *testing.T) string {
				p := filepath.Join(dir, "from-yaml.db")
				require.NoError(t, os.WriteFile(filepath.Join(dir, "alt.yaml"), []byte("db_path: "+p+"\n"), 0o644))
				return p
			},
			args: []string{"-config", filepath.Join(dir, "alt.yaml")},
		},
		{
			name: ".env file",
			setup: func(t *testing.T) string {
				p := filepath.Join(dir, "dotenv.db")
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINANCE_DB_PATH="+p+"\n"), 0o644))
				t.Cleanup(func() {
					os.Remove(filepath.Join(dir, ".env"))
					os.Unsetenv("FINANCE_DB_PATH")
				})
				os.Unsetenv("FINANCE_DB_PATH")
				return p
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := tc.setup(t)
			args := append([]string{"-user", "bob", "-password", "pw"}, tc.args...)

			r := adduser("", args...)
			require.NoError(t, r.err)
			assert.FileExists(t, want)
			assert.NoFileExists(t, filepath.Join(dir, "finance.db"))
			login(t, want, "bob", "pw")
		})
	}
}

func TestRun_FlagOverridesConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FINANCE_DB_PATH", filepath.Join(dir, "configured.db"))
	dbPath := filepath.Join(dir, "flag.db")

	r := adduser("", "-user", "carol", "-password", "pw", "-db", dbPath)
	require.NoError(t, r.err)
	assert.FileExists(t, dbPath)
	assert.NoFileExists(t, filepath.Join(dir, "configured.db"))
}

func TestRun_DefaultStore(t *testing.T) {
	dir := isolate(t)

	r := adduser("", "-user", "dave", "-password", "pw")
	require.NoError(t, r.err)
	login(t, filepath.Join(dir, "finance.db"), "dave", "pw")
}

func TestRun_DuplicateUser(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "dup.db")

	require.NoError(t, adduser("", "-user", "erin", "-password", "first", "-db", dbPath).err)

	r := adduser("", "-user", "erin", "-password", "second", "-db", dbPath)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "user erin already exists")
	login(t, dbPath, "erin", "first")
}

func TestRun_PromptsForPassword(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "prompt.db")

	r := adduser("typed secret\n", "-user", "frank", "-db", dbPath)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Password: ")
	login(t, dbPath, "frank", "typed secret")
}

func TestRun_Rejected(t *testing.T) {
	dir := isolate(t)

	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"missing user", "", []string{"-password", "pw"}, "missing required flags: user"},
		{"blank user", "", []string{"-user", "  ", "-password", "pw"}, "username cannot be empty"},
		{"empty prompted password", "\n", []string{"-user", "gina"}, "password cannot be empty"},
		{"no password input", "", []string{"-user", "gina"}, "failed to read password"},
		{"bad cost", "", []string{"-user", "gina", "-password", "pw", "-cost", "99"}, "invalid bcrypt cost 99"},
		{"bad config", "", []string{"-user", "gina", "-password", "pw", "-config", "nope.yaml"}, "read config"},
		{"db is a directory", "", []string{"-user", "gina", "-password", "pw", "-db", dir}, "failed to open database"},
		{"unknown flag", "", []string{"-invalid"}, "flag provided but not defined"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := adduser(tc.stdin, tc.args...)
			require.Error(t, r.err)
			assert.Contains(t, r.err.Error(), tc.want)
		})
	}
}

func TestRun_MissingUserPrintsUsage(t *testing.T) {
	isolate(t)

	r := adduser("", "-password", "pw")
	require.Error(t, r.err)
	assert.Contains(t, r.stdout, "Usage:")
}
