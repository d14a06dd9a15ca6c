package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/transaction-ledger/internal/components"
	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/logger"
	"github.com/transaction-ledger/internal/sink/csvsink"
	"github.com/transaction-ledger/internal/source/csvsource"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newFlagSet(stderr io.Writer) (*pflag.FlagSet, *string) {
	flags := pflag.NewFlagSet("ledger", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	output := flags.StringP("output", "o", "", "write the account snapshot to this file instead of stdout")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("app-env", "development", "environment; anything but production panics on internal inconsistencies")
	flags.Bool("postgres-enabled", false, "store the final snapshot in PostgreSQL")
	flags.Bool("mongo-enabled", false, "journal rejected records in MongoDB")

	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: ledger [flags] <transactions.csv>")
		flags.PrintDefaults()
	}
	return flags, output
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, output := newFlagSet(stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}
	inputPath := flags.Arg(0)

	cfg, err := config.LoadConfigWithFlags("ledger", flags)
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitError
	}

	log := logger.NewLoggerTo(stderr, cfg)
	runID := uuid.NewString()
	log = log.With("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := csvsource.Open(inputPath, log)
	if err != nil {
		log.Error("Failed to open input", "path", inputPath, "error", err)
		return exitError
	}
	defer src.Close()

	stores, err := components.OpenStores(ctx, log, cfg)
	if err != nil {
		log.Error("Failed to open stores", "error", err)
		return exitError
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Error("Error closing stores", "error", err)
		}
	}()

	j, err := components.CreateJournal(cfg, runID, log, stores.Rejections, nil)
	if err != nil {
		log.Error("Failed to create rejection journal", "error", err)
		return exitError
	}

	log.Info("Processing transactions", "path", inputPath)
	snapshot, err := components.CreatePipeline(cfg, log, j).Run(ctx, src)
	if j != nil {
		j.Close()
	}
	if err != nil {
		log.Error("Failed to process transactions", "path", inputPath, "error", err)
		return exitError
	}
	if skipped := src.Skipped(); skipped > 0 {
		log.Warn("Skipped unreadable rows", "count", skipped)
	}

	if err := writeSnapshot(*output, stdout, snapshot); err != nil {
		log.Error("Failed to write account snapshot", "error", err)
		return exitError
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := components.FinalizeRun(saveCtx, log, runID, snapshot, components.RunOutputs{Snapshots: stores.Snapshots}); err != nil {
		log.Error("Failed to finalize run", "error", err)
		return exitError
	}

	return exitOK
}

func writeSnapshot(path string, stdout io.Writer, snapshot map[shared.ClientID]account.Snapshot) error {
	if path == "" {
		return csvsink.Write(stdout, snapshot)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := csvsink.Write(f, snapshot); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
