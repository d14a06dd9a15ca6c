package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

// ErrNotRunning is returned by Query once the command stream has been drained
var ErrNotRunning = errors.New("ledger engine is not running")

// Rejected pairs a dropped command with the reason it was dropped
type Rejected struct {
	Command command.Command
	Err     error
}

// Stats counts what happened to the commands seen so far
type Stats struct {
	Applied  int
	Rejected int
}

// Option configures an Engine
type Option func(*Engine)

// WithRejections forwards every rejected command to ch. The engine blocks on ch,
// so the reader must keep up or buffer.
func WithRejections(ch chan<- Rejected) Option {
	return func(e *Engine) {
		e.rejections = ch
	}
}

// WithStrictMode makes the engine panic on internal-consistency failures instead of
// logging and dropping the command.
func WithStrictMode(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// Engine owns every account and deposit record. It is driven by a single goroutine
// through Run; Process and Snapshot are not safe for concurrent use.
type Engine struct {
	accounts map[shared.ClientID]*account.Account
	deposits map[shared.TxID]*ledger.DepositRecord

	rejections chan<- Rejected
	queries    chan chan map[shared.ClientID]account.Snapshot
	done       chan struct{}

	strict bool
	stats  Stats
	logger *slog.Logger
}

// New creates an empty engine
func New(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		accounts: make(map[shared.ClientID]*account.Account),
		deposits: make(map[shared.TxID]*ledger.DepositRecord),
		queries:  make(chan chan map[shared.ClientID]account.Snapshot),
		done:     make(chan struct{}),
		logger:   logger.With("component", "ledger_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process validates cmd and, if accepted, applies its effect. A rejected command leaves
// the balances untouched and returns a ledger.RejectionError.
func (e *Engine) Process(cmd command.Command) error {
	valid, err := e.validate(cmd)
	if err != nil {
		return err
	}
	return e.apply(valid)
}

// Run consumes commands in arrival order until the channel is closed or ctx is done and
// returns the final snapshot of every account touched. A failing command never stops
// the stream.
func (e *Engine) Run(ctx context.Context, commands <-chan command.Command) map[shared.ClientID]account.Snapshot {
	defer close(e.done)
	e.logger.Info("Ledger engine started", "strict", e.strict)

	for {
		select {
		case <-ctx.Done():
			e.logger.Warn("Command stream interrupted, returning accumulated state",
				"error", ctx.Err(), "applied", e.stats.Applied, "rejected", e.stats.Rejected)
			return e.Snapshot()
		case reply := <-e.queries:
			reply <- e.Snapshot()
		case cmd, ok := <-commands:
			if !ok {
				e.logger.Info("Command stream closed", "applied", e.stats.Applied, "rejected", e.stats.Rejected, "accounts", len(e.accounts))
				return e.Snapshot()
			}
			e.handle(ctx, cmd)
		}
	}
}

func (e *Engine) handle(ctx context.Context, cmd command.Command) {
	err := e.Process(cmd)
	if err == nil {
		e.stats.Applied++
		e.logger.Debug("Command applied", "type", cmd.Type(), "tx_id", cmd.Transaction(), "client_id", cmd.Client())
		return
	}

	var invariant ledger.InvariantError
	if errors.As(err, &invariant) {
		if e.strict {
			panic(invariant)
		}
		e.logger.Error("Ledger invariant violated, dropping command", "type", cmd.Type(), "tx_id", cmd.Transaction(), "client_id", cmd.Client(), "error", err)
	} else {
		e.logger.Warn("Command rejected", "type", cmd.Type(), "tx_id", cmd.Transaction(), "client_id", cmd.Client(), "error", err)
	}
	e.stats.Rejected++

	if e.rejections == nil {
		return
	}
	select {
	case e.rejections <- Rejected{Command: cmd, Err: err}:
	case <-ctx.Done():
	}
}

// Query asks the running engine for a snapshot. It is safe to call from any goroutine.
func (e *Engine) Query(ctx context.Context) (map[shared.ClientID]account.Snapshot, error) {
	reply := make(chan map[shared.ClientID]account.Snapshot, 1)
	select {
	case e.queries <- reply:
	case <-e.done:
		return nil, ErrNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case snapshot := <-reply:
		return snapshot, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot copies the state of every account
func (e *Engine) Snapshot() map[shared.ClientID]account.Snapshot {
	out := make(map[shared.ClientID]account.Snapshot, len(e.accounts))
	for clientID, acc := range e.accounts {
		out[clientID] = acc.Snapshot(clientID)
	}
	return out
}

// Stats returns the counters accumulated by Run
func (e *Engine) Stats() Stats {
	return e.stats
}
