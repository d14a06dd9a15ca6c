package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]account.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Snapshot), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Snapshot), args.Error(1)
}

func (m *MockAccountService) GetLatestSnapshot(ctx context.Context, clientID shared.ClientID) (*account.Snapshot, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Snapshot), args.Error(1)
}

type MockRejectionService struct {
	mock.Mock
}

func (m *MockRejectionService) ListRejections(ctx context.Context, runID string, page, perPage int) ([]*ledger.Rejection, int64, error) {
	args := m.Called(ctx, runID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Rejection), args.Get(1).(int64), args.Error(2)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
