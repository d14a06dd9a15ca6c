package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/engine"
)

func liveState() map[shared.ClientID]account.Snapshot {
	return map[shared.ClientID]account.Snapshot{
		7: {ClientID: 7, Available: 1, Total: 1},
		2: {ClientID: 2, Available: 3, Held: 1, Total: 4},
		5: {ClientID: 5, Locked: true, LockReason: shared.LockReasonChargeback},
	}
}

func TestAccountService_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("OrderedByClient", func(t *testing.T) {
		querier := new(MockLedgerQuerier)
		querier.On("Query", ctx).Return(liveState(), nil).Once()
		svc := NewAccountService(querier, nil)

		accounts, err := svc.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		assert.Equal(t, shared.ClientID(2), accounts[0].ClientID)
		assert.Equal(t, shared.ClientID(5), accounts[1].ClientID)
		assert.Equal(t, shared.ClientID(7), accounts[2].ClientID)
		querier.AssertExpectations(t)
	})

	t.Run("LedgerStopped", func(t *testing.T) {
		querier := new(MockLedgerQuerier)
		querier.On("Query", ctx).Return(nil, engine.ErrNotRunning).Once()
		svc := NewAccountService(querier, nil)

		_, err := svc.ListAccounts(ctx)
		assert.ErrorIs(t, err, engine.ErrNotRunning)
	})
}

func TestAccountService_GetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		querier := new(MockLedgerQuerier)
		querier.On("Query", ctx).Return(liveState(), nil).Once()
		svc := NewAccountService(querier, nil)

		snap, err := svc.GetAccount(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, shared.Amount(4), snap.Total)
	})

	t.Run("NotFound", func(t *testing.T) {
		querier := new(MockLedgerQuerier)
		querier.On("Query", ctx).Return(liveState(), nil).Once()
		svc := NewAccountService(querier, nil)

		_, err := svc.GetAccount(ctx, 9)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}

func TestAccountService_GetLatestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		svc := NewAccountService(new(MockLedgerQuerier), nil)
		_, err := svc.GetLatestSnapshot(ctx, 1)
		assert.ErrorIs(t, err, ErrStoreDisabled)
	})

	t.Run("Found", func(t *testing.T) {
		repo := new(MockSnapshotRepository)
		expected := &account.Snapshot{ClientID: 1, Available: 2, Total: 2}
		repo.On("GetLatest", ctx, shared.ClientID(1)).Return(expected, nil).Once()
		svc := NewAccountService(new(MockLedgerQuerier), repo)

		snap, err := svc.GetLatestSnapshot(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, expected, snap)
		repo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockSnapshotRepository)
		dbErr := errors.New("connection reset")
		repo.On("GetLatest", ctx, shared.ClientID(1)).Return(nil, dbErr).Once()
		svc := NewAccountService(new(MockLedgerQuerier), repo)

		_, err := svc.GetLatestSnapshot(ctx, 1)
		assert.ErrorIs(t, err, dbErr)
	})
}
