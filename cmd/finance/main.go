package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"finance-tracker/internal/config"
	"finance-tracker/internal/logging"
	"finance-tracker/internal/money"
	"finance-tracker/internal/service"
	"finance-tracker/internal/shell"
	"finance-tracker/internal/storage"
)

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

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("finance", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "", "Path to database file (overrides config)")
	configPath := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.LoadEnvFile()
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	formatter, err := money.NewFormatter(cfg.CurrencySymbol, cfg.Locale)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBPath, storage.WithLocation(cfg.Location()))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	logger.WithFields(logrus.Fields{
		"db_path":  store.Path(),
		"timezone": store.Location().String(),
	}).Info("Startup.Complete")

	svc := service.New(store, logger, service.WithBcryptCost(cfg.BcryptCost))
	sh := shell.New(svc, stdin, stdout, shell.WithFormatter(formatter), shell.WithLogger(logger))
	return sh.Run(ctx)
}
