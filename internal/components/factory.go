// Package components wires the ledger's building blocks from configuration. Optional
// stores and sinks are left out entirely when disabled.
package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/data/mongo"
	"github.com/transaction-ledger/internal/data/postgres"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/journal"
	"github.com/transaction-ledger/internal/pipeline"
	"github.com/transaction-ledger/internal/platform/messaging/consumers"
	"github.com/transaction-ledger/internal/platform/messaging/producers"
	"github.com/transaction-ledger/internal/platform/persistence"
)

// Stores holds the connections and repositories enabled in the configuration.
// Nil fields are disabled.
type Stores struct {
	Postgres   *persistence.PostgresDB
	Mongo      *persistence.MongoDB
	Snapshots  account.SnapshotRepository
	Rejections ledger.RejectionRepository
}

// OpenStores connects to every enabled store. Whatever was opened is closed again on failure.
func OpenStores(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Stores, error) {
	stores := &Stores{}

	if cfg.Postgres.Enabled {
		db, err := persistence.NewPostgresDB(ctx, logger, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		stores.Postgres = db
		stores.Snapshots = postgres.NewSnapshotRepository(logger, db)
	}

	if cfg.MongoDB.Enabled {
		db, err := persistence.NewMongoDB(ctx, logger, &cfg.MongoDB)
		if err != nil {
			stores.Close(ctx)
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		stores.Mongo = db

		repo := mongo.NewRejectionRepository(logger, db.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			stores.Close(ctx)
			return nil, fmt.Errorf("failed to ensure rejection indexes: %w", err)
		}
		stores.Rejections = repo
	}

	return stores, nil
}

// Close releases every open connection
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close MongoDB: %w", err))
		}
	}
	return errors.Join(errs...)
}

// CreateJournal returns nil when there is nowhere to record rejections
func CreateJournal(cfg *config.Config, runID string, logger *slog.Logger, rejections ledger.RejectionRepository, dlq *producers.DLQProducer) (*journal.Journal, error) {
	var opts []journal.Option
	if rejections != nil {
		opts = append(opts, journal.WithRepository(rejections))
	}
	if dlq != nil {
		opts = append(opts, journal.WithDeadLetter(dlq))
	}
	if len(opts) == 0 {
		logger.Info("No rejection store configured, rejections are only logged")
		return nil, nil
	}

	j, err := journal.New(journal.Config{
		WorkerPoolSize: cfg.Journal.WorkerPoolSize,
		WriteTimeout:   cfg.Journal.WriteTimeout,
	}, runID, logger, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("Created rejection journal", "pool_size", cfg.Journal.WorkerPoolSize, "dead_letter", dlq != nil, "store", rejections != nil)
	return j, nil
}

// CreatePipeline builds a pipeline whose rejections go to j. j may be nil.
func CreatePipeline(cfg *config.Config, logger *slog.Logger, j *journal.Journal) *pipeline.Pipeline {
	var sink pipeline.RejectionSink
	if j != nil {
		sink = j
	}

	return pipeline.New(pipeline.Config{
		SourceBufferSize:  cfg.Pipeline.SourceBufferSize,
		CommandBufferSize: cfg.Pipeline.CommandBufferSize,
		RejectionBuffer:   cfg.Pipeline.RejectionBuffer,
		StrictMode:        cfg.Application.StrictMode(),
	}, logger, sink)
}

// CreateRecordSource builds the Kafka record source. dlq may be nil.
func CreateRecordSource(logger *slog.Logger, cfg *config.Config, dlq *producers.DLQProducer) *consumers.KafkaRecordSource {
	if dlq == nil {
		return consumers.NewKafkaRecordSource(logger, &cfg.Kafka, nil)
	}
	return consumers.NewKafkaRecordSource(logger, &cfg.Kafka, dlq)
}
