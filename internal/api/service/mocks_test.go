package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

type MockLedgerQuerier struct {
	mock.Mock
}

func (m *MockLedgerQuerier) Query(ctx context.Context) (map[shared.ClientID]account.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.ClientID]account.Snapshot), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) SaveRun(ctx context.Context, runID string, snapshots []account.Snapshot) error {
	args := m.Called(ctx, runID, snapshots)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Snapshot), args.Error(1)
}

type MockRejectionRepository struct {
	mock.Mock
}

func (m *MockRejectionRepository) Create(ctx context.Context, rejection *ledger.Rejection) error {
	args := m.Called(ctx, rejection)
	return args.Error(0)
}

func (m *MockRejectionRepository) CountByRunID(ctx context.Context, runID string) (int64, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRejectionRepository) GetByRunID(ctx context.Context, runID string, limit, offset int) ([]*ledger.Rejection, error) {
	args := m.Called(ctx, runID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Rejection), args.Error(1)
}
