// Package shell implements the menu-driven terminal front end of the
// finance tracker. It reads one answer per line from its input and writes
// prompts and results to its output, so it runs the same over a terminal,
// a pipe or a test buffer.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/logging"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage"
)

// Service is what the shell drives. *service.Service implements it.
type Service interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	AddTransaction(ctx context.Context, userID int64, amount decimal.Decimal, category string, typ models.TransactionType) (*models.Transaction, *models.BudgetWarning, error)
	UpdateTransaction(ctx context.Context, userID, id int64, amount decimal.Decimal, category string, typ models.TransactionType) (bool, error)
	DeleteTransaction(ctx context.Context, userID, id int64) (bool, error)

	SetBudget(ctx context.Context, userID int64, category string, limit decimal.Decimal) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)

	MonthlyReport(ctx context.Context, userID int64, month time.Month, year int) (*models.MonthlyReport, error)
	YearlyReport(ctx context.Context, userID int64, year int) (*models.YearlyReport, error)

	Backup(ctx context.Context) (string, error)
	Restore(ctx context.Context) error
}

const mainMenu = `
1. Register
2. Login
3. Exit`

const userMenu = `
1. Add Income/Expense
2. Update Entry
3. Delete Entry
4. View Reports
5. Set Budget
6. List Budgets
7. Backup Data
8. Restore Data
9. Logout`

// Shell is one interactive session.
type Shell struct {
	svc   Service
	in    io.Reader
	lines *bufio.Scanner
	out   io.Writer
	money *money.Formatter
	log   *logrus.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithFormatter sets how amounts are rendered.
func WithFormatter(f *money.Formatter) Option {
	return func(s *Shell) {
		s.money = f
	}
}

// WithLogger sets the logger used for unexpected service errors.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Shell) {
		s.log = log
	}
}

// New creates a Shell reading answers from in and writing to out.
func New(svc Service, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		svc:   svc,
		in:    in,
		lines: bufio.NewScanner(in),
		out:   out,
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.money == nil {
		s.money = money.DefaultFormatter()
	}
	return s
}

// Run drives the main menu until the user exits or input ends.
// End of input is a normal exit.
func (s *Shell) Run(ctx context.Context) error {
	s.println("Welcome to Personal Finance Manager!")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println(mainMenu)
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = s.register(ctx)
		case "2":
			err = s.login(ctx)
		case "3":
			s.println("Goodbye!")
			return nil
		default:
			s.println("Invalid choice.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) register(ctx context.Context) error {
	username, password, err := s.credentials()
	if err != nil {
		return err
	}

	ok, err := s.svc.Register(ctx, username, password)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		s.println("Username and password cannot be empty.")
	case err != nil:
		s.fail("Register", err)
	case ok:
		s.println("Registration successful.")
	default:
		s.println("Username already exists.")
	}
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	username, password, err := s.credentials()
	if err != nil {
		return err
	}

	user, err := s.svc.Authenticate(ctx, username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		s.println("Invalid credentials.")
		return nil
	}
	if err != nil {
		s.fail("Authenticate", err)
		return nil
	}

	s.printf("Welcome back, %s!\n", user.Username)
	return s.userMenu(ctx, user)
}

func (s *Shell) credentials() (string, string, error) {
	username, err := s.prompt("Username: ")
	if err != nil {
		return "", "", err
	}
	s.print("Password: ")
	password, err := s.readPassword()
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (s *Shell) userMenu(ctx context.Context, user *models.User) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println(userMenu)
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addTransaction(ctx, user.ID)
		case "2":
			err = s.updateTransaction(ctx, user.ID)
		case "3":
			err = s.deleteTransaction(ctx, user.ID)
		case "4":
			err = s.reports(ctx, user.ID)
		case "5":
			err = s.setBudget(ctx, user.ID)
		case "6":
			s.listBudgets(ctx, user.ID)
		case "7":
			s.backup(ctx)
		case "8":
			s.restore(ctx)
		case "9":
			s.println("Logged out.")
			return nil
		default:
			s.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addTransaction(ctx context.Context, userID int64) error {
	amount, ok, err := s.promptAmount("Amount: ")
	if err != nil || !ok {
		return err
	}
	category, ok, err := s.promptCategory("Category (e.g. Food, Rent, Salary): ")
	if err != nil || !ok {
		return err
	}
	typ, ok, err := s.promptType()
	if err != nil || !ok {
		return err
	}

	tx, warning, err := s.svc.AddTransaction(ctx, userID, amount, category, typ)
	if err != nil {
		s.fail("AddTransaction", err)
		return nil
	}
	s.printf("Entry %d added.\n", tx.ID)
	if warning != nil {
		s.printf("Warning: You have exceeded your budget limit for %s (%s > %s)!\n",
			warning.Category, s.money.Format(warning.Spent), s.money.Format(warning.Limit))
	}
	return nil
}

func (s *Shell) updateTransaction(ctx context.Context, userID int64) error {
	id, ok, err := s.promptID("Entry ID to update: ")
	if err != nil || !ok {
		return err
	}
	amount, ok, err := s.promptAmount("New Amount: ")
	if err != nil || !ok {
		return err
	}
	category, ok, err := s.promptCategory("New Category: ")
	if err != nil || !ok {
		return err
	}
	typ, ok, err := s.promptType()
	if err != nil || !ok {
		return err
	}

	found, err := s.svc.UpdateTransaction(ctx, userID, id, amount, category, typ)
	if err != nil {
		s.fail("UpdateTransaction", err)
		return nil
	}
	if !found {
		s.println("No matching entry.")
		return nil
	}
	s.println("Entry updated.")
	return nil
}

func (s *Shell) deleteTransaction(ctx context.Context, userID int64) error {
	id, ok, err := s.promptID("Entry ID to delete: ")
	if err != nil || !ok {
		return err
	}

	found, err := s.svc.DeleteTransaction(ctx, userID, id)
	if err != nil {
		s.fail("DeleteTransaction", err)
		return nil
	}
	if !found {
		s.println("No matching entry.")
		return nil
	}
	s.println("Entry deleted.")
	return nil
}

func (s *Shell) reports(ctx context.Context, userID int64) error {
	s.println("1. Monthly Report\n2. Yearly Report")
	choice, err := s.prompt("Choose: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		month, err := s.prompt("Month (1-12): ")
		if err != nil {
			return err
		}
		year, err := s.prompt("Year (YYYY): ")
		if err != nil {
			return err
		}
		m, mErr := strconv.Atoi(month)
		y, yErr := strconv.Atoi(year)
		if mErr != nil || yErr != nil {
			s.println("Invalid month or year.")
			return nil
		}

		report, err := s.svc.MonthlyReport(ctx, userID, time.Month(m), y)
		if errors.Is(err, service.ErrInvalidInput) {
			s.println("Invalid month or year.")
			return nil
		}
		if err != nil {
			s.fail("MonthlyReport", err)
			return nil
		}
		s.printMonthly(report)
	case "2":
		year, err := s.prompt("Year (YYYY): ")
		if err != nil {
			return err
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			s.println("Invalid year.")
			return nil
		}

		report, err := s.svc.YearlyReport(ctx, userID, y)
		if errors.Is(err, service.ErrInvalidInput) {
			s.println("Invalid year.")
			return nil
		}
		if err != nil {
			s.fail("YearlyReport", err)
			return nil
		}
		s.printYearly(report)
	default:
		s.println("Invalid report type.")
	}
	return nil
}

func (s *Shell) setBudget(ctx context.Context, userID int64) error {
	category, ok, err := s.promptCategory("Category: ")
	if err != nil || !ok {
		return err
	}
	limit, ok, err := s.promptAmount("Monthly Limit: ")
	if err != nil || !ok {
		return err
	}

	budget, err := s.svc.SetBudget(ctx, userID, category, limit)
	if err != nil {
		s.fail("SetBudget", err)
		return nil
	}
	s.printf("Budget set for %s: %s\n", budget.Category, s.money.Format(budget.Limit))
	return nil
}

func (s *Shell) listBudgets(ctx context.Context, userID int64) {
	budgets, err := s.svc.ListBudgets(ctx, userID)
	if err != nil {
		s.fail("ListBudgets", err)
		return
	}
	if len(budgets) == 0 {
		s.println("No budgets set.")
		return
	}
	s.println("\n--- Budgets ---")
	for _, b := range budgets {
		s.printf("%-12s %s\n", b.Category, s.money.Format(b.Limit))
	}
}

func (s *Shell) backup(ctx context.Context) {
	if _, err := s.svc.Backup(ctx); err != nil {
		s.fail("Backup", err)
		return
	}
	s.println("Backup complete.")
}

func (s *Shell) restore(ctx context.Context) {
	err := s.svc.Restore(ctx)
	if errors.Is(err, storage.ErrNoBackup) {
		s.println("No backup found.")
		return
	}
	if err != nil {
		s.fail("Restore", err)
		return
	}
	s.println("Database restored from backup.")
}

// fail reports an unexpected service error. The session goes on.
func (s *Shell) fail(op string, err error) {
	s.log.WithError(err).Error(op + ".Failed")
	s.printf("Error: %v\n", err)
}

func (s *Shell) promptAmount(label string) (decimal.Decimal, bool, error) {
	line, err := s.prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := money.ParseAmount(line)
	if err != nil {
		s.println("Enter a valid positive number.")
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

func (s *Shell) promptCategory(label string) (string, bool, error) {
	category, err := s.prompt(label)
	if err != nil {
		return "", false, err
	}
	if category == "" {
		s.println("Category cannot be empty.")
		return "", false, nil
	}
	return category, true, nil
}

func (s *Shell) promptType() (models.TransactionType, bool, error) {
	line, err := s.prompt("Type (income/expense): ")
	if err != nil {
		return "", false, err
	}
	typ, err := models.ParseTransactionType(line)
	if err != nil {
		s.println("Type must be 'income' or 'expense'.")
		return "", false, nil
	}
	return typ, true, nil
}

func (s *Shell) promptID(label string) (int64, bool, error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil || id <= 0 {
		s.println("Invalid entry ID.")
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Shell) prompt(label string) (string, error) {
	s.print(label)
	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) readLine() (string, error) {
	if s.lines.Scan() {
		return strings.TrimSuffix(s.lines.Text(), "\r"), nil
	}
	if err := s.lines.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *Shell) readPassword() (string, error) {
	password, err := ReadPassword(s.in, s.readLine)
	if err == nil && IsTerminal(s.in) {
		s.println("")
	}
	return password, err
}

func (s *Shell) print(a ...any) {
	fmt.Fprint(s.out, a...)
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
