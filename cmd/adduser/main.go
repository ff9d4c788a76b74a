package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"finance-tracker/internal/config"
	"finance-tracker/internal/logging"
	"finance-tracker/internal/service"
	"finance-tracker/internal/shell"
	"finance-tracker/internal/storage"
)

const usage = "Usage: adduser -user <username> [-password <password>] [-db <db_path>] [-config <file>]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run provisions one account in the store cmd/finance would open with the
// same configuration.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	password := fs.String("password", "", "Password (prompted for when omitted)")
	dbPath := fs.String("db", "", "Path to database file (overrides config)")
	configPath := fs.String("config", "", "Path to YAML config file")
	cost := fs.Int("cost", 0, "bcrypt cost (overrides config)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		fmt.Fprintln(stdout, usage)
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	config.LoadEnvFile()
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *cost != 0 {
		cfg.BcryptCost = *cost
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *password == "" {
		fmt.Fprint(stdout, "Password: ")
		lines := bufio.NewScanner(stdin)
		*password, err = shell.ReadPassword(stdin, func() (string, error) {
			if lines.Scan() {
				return lines.Text(), nil
			}
			if err := lines.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		})
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBPath, storage.WithLocation(cfg.Location()))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := service.New(store, logger, service.WithBcryptCost(cfg.BcryptCost))
	created, err := svc.Register(ctx, *username, *password)
	if errors.Is(err, service.ErrInvalidInput) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return fmt.Errorf("user %s already exists", *username)
	}

	user, err := svc.Authenticate(ctx, *username, *password)
	if err != nil {
		return fmt.Errorf("verify new user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d in %s\n", user.Username, user.ID, store.Path())
	return nil
}
