package service

import (
	"context"
	"errors"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

// ErrStoreDisabled is returned when the backing store for a query is not configured
var ErrStoreDisabled = errors.New("store is not configured")

// LedgerQuerier is the read side of a running ledger engine
type LedgerQuerier interface {
	Query(ctx context.Context) (map[shared.ClientID]account.Snapshot, error)
}

// AccountService defines the interface for account queries
type AccountService interface {
	// ListAccounts returns the live state of every account, ordered by client id
	ListAccounts(ctx context.Context) ([]account.Snapshot, error)

	// GetAccount returns the live state of one account.
	// Returns ErrAccountNotFound if the ledger has never seen the client.
	GetAccount(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error)

	// GetLatestSnapshot returns the most recently persisted snapshot of a client.
	// Returns ErrSnapshotNotFound if none was stored and ErrStoreDisabled without a store.
	GetLatestSnapshot(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error)
}

// RejectionService defines the interface for rejection journal queries
type RejectionService interface {
	// ListRejections returns one page of a run's rejections and the total count.
	// Returns ErrStoreDisabled without a journal store.
	ListRejections(ctx context.Context, runID string, page, perPage int) ([]*ledger.Rejection, int64, error)
}
