package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	ledger       LedgerQuerier
	snapshotRepo account.SnapshotRepository
}

// NewAccountService creates a new account service. snapshotRepo may be nil.
func NewAccountService(ledger LedgerQuerier, snapshotRepo account.SnapshotRepository) AccountService {
	return &AccountServiceImpl{
		ledger:       ledger,
		snapshotRepo: snapshotRepo,
	}
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]account.Snapshot, error) {
	snapshots, err := s.ledger.Query(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]account.Snapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b account.Snapshot) int {
		return cmp.Compare(a.ClientID, b.ClientID)
	})
	return out, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	snapshots, err := s.ledger.Query(ctx)
	if err != nil {
		return nil, err
	}

	snap, ok := snapshots[clientID]
	if !ok {
		return nil, account.ErrAccountNotFound{ClientID: clientID}
	}
	return &snap, nil
}

func (s *AccountServiceImpl) GetLatestSnapshot(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	if s.snapshotRepo == nil {
		return nil, ErrStoreDisabled
	}
	return s.snapshotRepo.GetLatest(ctx, clientID)
}
