// Package postgres provides the PostgreSQL implementation of the account snapshot store
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/platform/persistence"
)

// SnapshotRepository implements the account.SnapshotRepository interface for PostgreSQL
type SnapshotRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) account.SnapshotRepository {
	return &SnapshotRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const upsertSnapshotQuery = `
		INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, lock_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, client_id) DO UPDATE
		SET available = EXCLUDED.available, held = EXCLUDED.held, total = EXCLUDED.total,
			locked = EXCLUDED.locked, lock_reason = EXCLUDED.lock_reason, captured_at = NOW()
	`

// SaveRun stores every snapshot of a run atomically. Saving the same run twice
// overwrites the earlier rows.
func (r *SnapshotRepository) SaveRun(ctx context.Context, runID string, snapshots []account.Snapshot) error {
	err := persistence.InTx(ctx, r.querier, func(tx pgx.Tx) error {
		for _, s := range snapshots {
			var lockReason *string
			if s.LockReason != "" {
				reason := string(s.LockReason)
				lockReason = &reason
			}

			_, err := tx.Exec(ctx, upsertSnapshotQuery,
				runID,
				int32(s.ClientID),
				shared.FormatAmount(s.Available),
				shared.FormatAmount(s.Held),
				shared.FormatAmount(s.Total),
				s.Locked,
				lockReason,
			)
			if err != nil {
				return fmt.Errorf("failed to store snapshot for client %d: %w", s.ClientID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save account snapshots", "run_id", runID, "count", len(snapshots), "error", err)
		return fmt.Errorf("failed to save snapshots of run %s: %w", runID, err)
	}

	r.logger.Info("Account snapshots saved", "run_id", runID, "count", len(snapshots))
	return nil
}

// GetLatest returns the most recently captured snapshot of a client across all runs
func (r *SnapshotRepository) GetLatest(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	query := `
		SELECT client_id, available::float8, held::float8, total::float8, locked, COALESCE(lock_reason, '')
		FROM account_snapshots
		WHERE client_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	var (
		id         int32
		snapshot   account.Snapshot
		lockReason string
	)
	err := r.querier.QueryRow(ctx, query, int32(clientID)).Scan(
		&id,
		&snapshot.Available,
		&snapshot.Held,
		&snapshot.Total,
		&snapshot.Locked,
		&lockReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrSnapshotNotFound{ClientID: clientID}
		}
		r.logger.Error("Failed to get latest snapshot", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	snapshot.ClientID = shared.ClientID(id)
	snapshot.LockReason = shared.LockReason(lockReason)
	return &snapshot, nil
}
