// Package journal records rejected commands and malformed records off the engine's
// goroutine, on a bounded worker pool.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/normalizer"
)

// DeadLetterPublisher receives malformed records
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
}

// Config sizes the journal
type Config struct {
	WorkerPoolSize int
	WriteTimeout   time.Duration
}

// Option configures a Journal
type Option func(*Journal)

// WithRepository stores every entry in repo
func WithRepository(repo ledger.RejectionRepository) Option {
	return func(j *Journal) {
		j.repo = repo
	}
}

// WithDeadLetter forwards malformed records to dlq
func WithDeadLetter(dlq DeadLetterPublisher) Option {
	return func(j *Journal) {
		j.dlq = dlq
	}
}

// Journal fans rejections out to its sinks. Entry order is not preserved.
type Journal struct {
	pool    *ants.Pool
	repo    ledger.RejectionRepository
	dlq     DeadLetterPublisher
	runID   string
	timeout time.Duration
	logger  *slog.Logger

	wg       sync.WaitGroup
	recorded atomic.Int64
	failed   atomic.Int64
}

// New creates a Journal tagging its entries with runID
func New(cfg Config, runID string, logger *slog.Logger, opts ...Option) (*Journal, error) {
	logger = logger.With("component", "rejection_journal", "run_id", runID)

	pool, err := ants.NewPool(cfg.WorkerPoolSize, ants.WithPanicHandler(func(p interface{}) {
		logger.Error("Journal worker panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create journal worker pool: %w", err)
	}

	j := &Journal{
		pool:    pool,
		runID:   runID,
		timeout: cfg.WriteTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// RecordRejected journals a command the engine refused
func (j *Journal) RecordRejected(_ context.Context, cmd command.Command, cause error) {
	entry := j.newEntry(ledger.StageEngine, cause)
	entry.Type = cmd.Type()
	entry.TxID = cmd.Transaction()
	entry.ClientID = cmd.Client()
	j.submit(entry, nil)
}

// RecordMalformed journals a record the normalizer could not convert and forwards it
// to the dead-letter queue when one is configured.
func (j *Journal) RecordMalformed(_ context.Context, record shared.RawRecord, cause error) {
	entry := j.newEntry(ledger.StageNormalizer, cause)
	entry.Type = record.Type
	entry.TxID = record.TxID
	entry.ClientID = record.ClientID
	j.submit(entry, &record)
}

func (j *Journal) newEntry(stage ledger.RejectionStage, cause error) *ledger.Rejection {
	return &ledger.Rejection{
		RunID:      j.runID,
		Stage:      stage,
		Kind:       KindOf(cause),
		Reason:     cause.Error(),
		RecordedAt: time.Now().UTC(),
	}
}

func (j *Journal) submit(entry *ledger.Rejection, record *shared.RawRecord) {
	j.wg.Add(1)
	err := j.pool.Submit(func() {
		defer j.wg.Done()
		j.write(entry, record)
	})
	if err != nil {
		j.wg.Done()
		j.failed.Add(1)
		j.logger.Error("Failed to submit rejection to journal worker pool", "tx_id", entry.TxID, "error", err)
	}
}

// write runs on a pool worker. It uses its own deadline so entries submitted just
// before shutdown still get written.
func (j *Journal) write(entry *ledger.Rejection, record *shared.RawRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	ok := true
	if j.repo != nil {
		if err := j.repo.Create(ctx, entry); err != nil {
			ok = false
			j.logger.Error("Failed to store rejection", "tx_id", entry.TxID, "client_id", entry.ClientID, "kind", entry.Kind, "error", err)
		}
	}

	if record != nil && j.dlq != nil {
		payload, err := json.Marshal(record)
		if err == nil {
			key := fmt.Sprintf("%d-%d", record.ClientID, record.TxID)
			err = j.dlq.PublishToDLQ(ctx, key, payload, entry.Kind)
		}
		if err != nil {
			ok = false
			j.logger.Error("Failed to dead-letter malformed record", "tx_id", entry.TxID, "error", err)
		}
	}

	if ok {
		j.recorded.Add(1)
	} else {
		j.failed.Add(1)
	}
}

// Recorded returns how many entries reached every configured sink
func (j *Journal) Recorded() int64 {
	return j.recorded.Load()
}

// Failed returns how many entries could not be written somewhere
func (j *Journal) Failed() int64 {
	return j.failed.Load()
}

// Close waits for pending entries and releases the worker pool
func (j *Journal) Close() {
	j.wg.Wait()
	j.logger.Info("Rejection journal closed", "recorded", j.Recorded(), "failed", j.Failed())
	j.pool.Release()
}

// KindOf names the failure class of a rejection cause
func KindOf(err error) string {
	var rejection ledger.RejectionError
	switch {
	case errors.As(err, &rejection):
		return string(rejection.Kind)
	case errors.Is(err, normalizer.ErrMissingAmount):
		return "MISSING_AMOUNT"
	case errors.Is(err, normalizer.ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, normalizer.ErrUnknownType):
		return "UNKNOWN_TYPE"
	case errors.As(err, new(ledger.InvariantError)):
		return "INVARIANT_VIOLATION"
	default:
		return "UNCLASSIFIED"
	}
}
