package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite runs the built binary against a fresh store per test.
type E2ETestSuite struct {
	suite.Suite
	dir    string
	dbPath string
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.dbPath = filepath.Join(suite.dir, "finance.db")
}

// session runs one process feeding it lines on stdin and returns stdout.
func (suite *E2ETestSuite) session(lines ...string) string {
	cmd := exec.Command(binPath, "-db", suite.dbPath)
	cmd.Dir = suite.dir
	cmd.Env = append(os.Environ(),
		"FINANCE_BCRYPT_COST=4",
		"FINANCE_LOCALE=en",
		"FINANCE_TIMEZONE=UTC",
		"FINANCE_LOG_LEVEL=error",
	)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(suite.T(), err, "finance exited with error: %s", stderr.String())
	return stdout.String()
}

func (suite *E2ETestSuite) login(steps ...string) string {
	lines := append([]string{"2", "alice", "pw"}, steps...)
	return suite.session(append(lines, "9", "3")...)
}

func (suite *E2ETestSuite) TestRegisterThenLoginInNewProcess() {
	out := suite.session("1", "alice", "pw", "3")
	suite.Contains(out, "Registration successful.")

	out = suite.login()
	suite.Contains(out, "Welcome back, alice!")
	suite.Contains(out, "Logged out.")
}

func (suite *E2ETestSuite) TestEntriesPersistAcrossProcesses() {
	suite.session("1", "alice", "pw", "3")
	suite.login(
		"1", "100", "Salary", "income",
		"1", "50", "Food", "expense",
	)

	year := strconv.Itoa(time.Now().UTC().Year())
	out := suite.login("4", "2", year)
	suite.Contains(out, "--- Yearly Report ("+year+") ---")
	suite.Contains(out, "Total Income: ₹100.00")
	suite.Contains(out, "Total Expense: ₹50.00")
	suite.Contains(out, "Savings: ₹50.00")

	out = suite.login("6")
	suite.Contains(out, "No budgets set.")
}

func (suite *E2ETestSuite) TestBudgetWarning() {
	suite.session("1", "alice", "pw", "3")

	out := suite.login(
		"5", "Food", "100",
		"1", "120", "Food", "expense",
	)
	suite.Contains(out, "Budget set for Food: ₹100.00")
	suite.Contains(out, "Warning: You have exceeded your budget limit for Food (₹120.00 > ₹100.00)!")
}

func (suite *E2ETestSuite) TestBackupRestoreAcrossProcesses() {
	suite.session("1", "alice", "pw", "3")

	out := suite.login("8")
	suite.Contains(out, "No backup found.")

	suite.login("1", "10", "Food", "expense", "7")
	suite.FileExists(suite.dbPath + ".bak")

	suite.login("1", "90", "Food", "expense")

	out = suite.login("8")
	suite.Contains(out, "Database restored from backup.")

	backup, err := os.ReadFile(suite.dbPath + ".bak")
	suite.Require().NoError(err)
	live, err := os.ReadFile(suite.dbPath)
	suite.Require().NoError(err)
	suite.Equal(backup, live)
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
