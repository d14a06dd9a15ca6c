// Package pipeline connects a record source, the normalizer and the ledger engine with
// bounded channels. Each stage runs on its own goroutine and closes its output when done,
// so the engine's final snapshot is the point where the whole run joins.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/engine"
	"github.com/transaction-ledger/internal/normalizer"
)

// Source produces raw records in order. Stream must not close out.
type Source interface {
	Stream(ctx context.Context, out chan<- shared.RawRecord) error
}

// RejectionSink is told about every record or command that was dropped
type RejectionSink interface {
	RecordRejected(ctx context.Context, cmd command.Command, cause error)
	RecordMalformed(ctx context.Context, record shared.RawRecord, cause error)
}

// Config sizes the channels between stages
type Config struct {
	SourceBufferSize  int
	CommandBufferSize int
	RejectionBuffer   int
	StrictMode        bool
}

// Pipeline runs one pass over a source
type Pipeline struct {
	cfg        Config
	engine     *engine.Engine
	normalizer *normalizer.Normalizer
	sink       RejectionSink
	rejections chan engine.Rejected
	logger     *slog.Logger
}

// New wires a fresh engine. sink may be nil.
func New(cfg Config, logger *slog.Logger, sink RejectionSink) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		sink:   sink,
		logger: logger.With("component", "pipeline"),
	}

	opts := []engine.Option{engine.WithStrictMode(cfg.StrictMode)}
	var onMalformed normalizer.MalformedHandler
	if sink != nil {
		p.rejections = make(chan engine.Rejected, cfg.RejectionBuffer)
		opts = append(opts, engine.WithRejections(p.rejections))
		onMalformed = sink.RecordMalformed
	}

	p.engine = engine.New(logger, opts...)
	p.normalizer = normalizer.New(logger, onMalformed)
	return p
}

// Engine exposes the engine for live snapshot queries
func (p *Pipeline) Engine() *engine.Engine {
	return p.engine
}

// Run streams src through the engine and returns the final snapshot. Cancelling ctx
// stops the source; records already read are still applied before Run returns. A
// failing stage stops every stage and Run returns the state accumulated so far along
// with the error.
func (p *Pipeline) Run(ctx context.Context, src Source) (map[shared.ClientID]account.Snapshot, error) {
	g, drainCtx := errgroup.WithContext(context.WithoutCancel(ctx))

	sourceCtx, stopSource := context.WithCancel(ctx)
	defer stopSource()
	stop := context.AfterFunc(drainCtx, stopSource)
	defer stop()

	records := make(chan shared.RawRecord, p.cfg.SourceBufferSize)
	commands := make(chan command.Command, p.cfg.CommandBufferSize)

	g.Go(func() error {
		defer close(records)
		err := src.Stream(sourceCtx, records)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			p.logger.Info("Source stopped on shutdown")
			return nil
		}
		if err != nil {
			return fmt.Errorf("record source failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer close(commands)
		return p.normalizer.Run(drainCtx, records, commands)
	})

	var snapshot map[shared.ClientID]account.Snapshot
	g.Go(func() error {
		snapshot = p.engine.Run(drainCtx, commands)
		if p.rejections != nil {
			close(p.rejections)
		}
		return nil
	})

	if p.rejections != nil {
		g.Go(func() error {
			for r := range p.rejections {
				p.sink.RecordRejected(drainCtx, r.Command, r.Err)
			}
			return nil
		})
	}

	err := g.Wait()
	stats := p.engine.Stats()
	if err != nil {
		p.logger.Error("Pipeline stopped early", "error", err, "applied", stats.Applied, "rejected", stats.Rejected)
		return snapshot, err
	}

	p.logger.Info("Pipeline finished", "accounts", len(snapshot), "applied", stats.Applied, "rejected", stats.Rejected)
	return snapshot, nil
}
