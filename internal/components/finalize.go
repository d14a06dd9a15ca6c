package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/platform/messaging/producers"
	"github.com/transaction-ledger/internal/sink/csvsink"
)

// RunOutputs are the optional destinations of a run's final snapshot
type RunOutputs struct {
	Snapshots account.SnapshotRepository
	Publisher producers.SnapshotPublisher
}

// FinalizeRun stores and publishes the final snapshot of a run. Every destination is
// attempted; the errors of those that failed are joined.
func FinalizeRun(ctx context.Context, logger *slog.Logger, runID string, snapshot map[shared.ClientID]account.Snapshot, out RunOutputs) error {
	sorted := csvsink.Sorted(snapshot)
	logger = logger.With("run_id", runID, "accounts", len(sorted))

	var errs []error
	if out.Snapshots != nil {
		if err := out.Snapshots.SaveRun(ctx, runID, sorted); err != nil {
			errs = append(errs, fmt.Errorf("failed to store snapshot: %w", err))
		} else {
			logger.Info("Stored final snapshot")
		}
	}

	if out.Publisher != nil {
		if err := out.Publisher.PublishSnapshots(ctx, runID, sorted); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish snapshot: %w", err))
		} else {
			logger.Info("Published final snapshot")
		}
	}

	return errors.Join(errs...)
}
