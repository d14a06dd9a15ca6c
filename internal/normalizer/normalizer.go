// Package normalizer turns raw transaction records into engine commands
package normalizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/shared"
)

var (
	ErrMissingAmount = errors.New("amount is required")
	ErrInvalidAmount = errors.New("amount must be a positive finite number")
	ErrUnknownType   = errors.New("unknown record type")
)

// MalformedHandler is told about every record that could not become a command
type MalformedHandler func(ctx context.Context, record shared.RawRecord, err error)

// Normalize checks field presence and amount sanity and builds the matching command.
// Amounts on dispute, resolve and chargeback records are ignored.
func Normalize(record shared.RawRecord) (command.Command, error) {
	switch record.Type {
	case shared.CommandTypeDeposit, shared.CommandTypeWithdrawal:
		amount, err := checkAmount(record.Amount)
		if err != nil {
			return nil, fmt.Errorf("%s record tx %d: %w", record.Type, record.TxID, err)
		}
		if record.Type == shared.CommandTypeDeposit {
			return command.Deposit{ClientID: record.ClientID, TxID: record.TxID, Amount: amount}, nil
		}
		return command.Withdrawal{ClientID: record.ClientID, TxID: record.TxID, Amount: amount}, nil
	case shared.CommandTypeDispute:
		return command.Dispute{ClientID: record.ClientID, TxID: record.TxID}, nil
	case shared.CommandTypeResolve:
		return command.Resolve{ClientID: record.ClientID, TxID: record.TxID}, nil
	case shared.CommandTypeChargeback:
		return command.Chargeback{ClientID: record.ClientID, TxID: record.TxID}, nil
	default:
		return nil, fmt.Errorf("record tx %d of type %q: %w", record.TxID, record.Type, ErrUnknownType)
	}
}

func checkAmount(amount *shared.Amount) (shared.Amount, error) {
	if amount == nil {
		return 0, ErrMissingAmount
	}
	a := *amount
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return 0, ErrInvalidAmount
	}
	return a, nil
}

// Normalizer is the pipeline stage between a record source and the engine
type Normalizer struct {
	logger      *slog.Logger
	onMalformed MalformedHandler
}

// New creates a Normalizer. onMalformed may be nil.
func New(logger *slog.Logger, onMalformed MalformedHandler) *Normalizer {
	return &Normalizer{
		logger:      logger.With("component", "normalizer"),
		onMalformed: onMalformed,
	}
}

// Run converts records from in and sends the commands to out, preserving order, until
// in is closed. Malformed records are logged and skipped. Run does not close out.
func (n *Normalizer) Run(ctx context.Context, in <-chan shared.RawRecord, out chan<- command.Command) error {
	var converted, skipped int
	defer func() {
		n.logger.Info("Normalizer finished", "converted", converted, "skipped", skipped)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case record, ok := <-in:
			if !ok {
				return nil
			}

			cmd, err := Normalize(record)
			if err != nil {
				skipped++
				n.logger.Warn("Skipping malformed record", "record", record.String(), "error", err)
				if n.onMalformed != nil {
					n.onMalformed(ctx, record, err)
				}
				continue
			}

			select {
			case out <- cmd:
				converted++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
