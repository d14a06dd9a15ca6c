package account

import (
	"context"
	"fmt"

	"github.com/transaction-ledger/internal/domain/shared"
)

// ErrSnapshotNotFound is returned when no snapshot was ever stored for a client
type ErrSnapshotNotFound struct {
	ClientID shared.ClientID
}

func (e ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("no snapshot stored for client %d", e.ClientID)
}

// Is implements the errors.Is interface
func (e ErrSnapshotNotFound) Is(target error) bool {
	_, ok := target.(ErrSnapshotNotFound)
	return ok
}

// SnapshotRepository stores the account snapshots produced by a run. Stored snapshots
// are an output only; the engine never loads them back.
type SnapshotRepository interface {
	SaveRun(ctx context.Context, runID string, snapshots []Snapshot) error
	GetLatest(ctx context.Context, clientID shared.ClientID) (*Snapshot, error)
}

// ErrAccountNotFound is returned when the ledger has never seen the client
type ErrAccountNotFound struct {
	ClientID shared.ClientID
}

func (e ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account for client %d not found", e.ClientID)
}

// Is implements the errors.Is interface
func (e ErrAccountNotFound) Is(target error) bool {
	_, ok := target.(ErrAccountNotFound)
	return ok
}
