package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/transaction-ledger/internal/api"
	"github.com/transaction-ledger/internal/api/service"
	"github.com/transaction-ledger/internal/components"
	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/logger"
	"github.com/transaction-ledger/internal/platform/messaging/producers"
)

type pipelineResult struct {
	snapshot map[shared.ClientID]account.Snapshot
	err      error
}

func main() {
	flags := pflag.NewFlagSet("ledger_service", pflag.ExitOnError)
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Int("server-port", 8080, "HTTP port for the query API")
	_ = flags.Parse(os.Args[1:])

	// Initialize configuration
	cfg, err := config.LoadConfigWithFlags("ledger_service", flags)
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	log := logger.NewLogger(cfg).With("run_id", runID)
	log.Info("Starting Ledger Service",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"strict", cfg.Application.StrictMode(),
	)

	appCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stopSignals()

	stores, err := components.OpenStores(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to open stores", "error", err)
		os.Exit(1)
	}

	// dlqProducer is nil if DLQTopic is not configured
	dlqProducer, err := producers.NewDLQProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	snapshotProducer, err := producers.NewSnapshotProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize snapshot Kafka producer", "error", err)
		os.Exit(1)
	}

	j, err := components.CreateJournal(cfg, runID, log, stores.Rejections, dlqProducer)
	if err != nil {
		log.Error("Failed to create rejection journal", "error", err)
		os.Exit(1)
	}

	pipe := components.CreatePipeline(cfg, log, j)
	source := components.CreateRecordSource(log, cfg, dlqProducer)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	var server *api.Server
	if cfg.Server.Enabled {
		server = api.NewServer(log, cfg,
			service.NewAccountService(pipe.Engine(), stores.Snapshots),
			service.NewRejectionService(stores.Rejections),
		)
		go func() {
			if err := server.Start(); err != nil {
				errChan <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	runCtx, cancelRun := context.WithCancel(appCtx)
	defer cancelRun()

	pipelineDone := make(chan pipelineResult, 1)
	go func() {
		snapshot, err := pipe.Run(runCtx, source)
		pipelineDone <- pipelineResult{snapshot: snapshot, err: err}
	}()

	// Wait for a shutdown signal, a server failure or the source giving up
	var serviceErr error
	var result pipelineResult
	select {
	case <-appCtx.Done():
		log.Info("Shutdown signal received, draining pipeline")
		result = <-pipelineDone
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
		cancelRun()
		result = <-pipelineDone
	case result = <-pipelineDone:
	}
	if result.err != nil {
		log.Error("Pipeline stopped with error", "error", result.err)
		serviceErr = result.err
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if server != nil {
		if err := server.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping HTTP server", "error", err)
		}
	}

	if j != nil {
		j.Close()
	}

	if err := components.FinalizeRun(shutdownCtx, log, runID, result.snapshot, components.RunOutputs{
		Snapshots: stores.Snapshots,
		Publisher: snapshotProducer,
	}); err != nil {
		log.Error("Failed to finalize run", "error", err)
		serviceErr = err
	}

	if err := source.Close(); err != nil {
		log.Error("Error closing Kafka record source", "error", err)
	}
	if err := snapshotProducer.Close(); err != nil {
		log.Error("Error closing snapshot Kafka producer", "error", err)
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}
	if err := stores.Close(shutdownCtx); err != nil {
		log.Error("Error closing stores", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger Service shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger Service shutdown completed successfully")
}
