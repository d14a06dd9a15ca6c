package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/transaction-ledger/internal/api/middleware"
	"github.com/transaction-ledger/internal/api/service"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

const testRunID = "3a6f0c52-1b7e-4d2a-8f19-7c0e5b4d9a61"

func serveRejections(t *testing.T, svc *MockRejectionService, path string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewRejectionHandler(newTestLogger(), svc)
	router := setupTestRouter()
	router.Use(middleware.CorrelationID())
	router.GET("/runs/:run_id/rejections", h.ListByRun)

	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.CorrelationIDHeader, "corr-rejections")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRejectionHandler_ListByRun(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		recordedAt := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		svc := new(MockRejectionService)
		svc.On("ListRejections", mock.Anything, testRunID, 2, 5).Return([]*ledger.Rejection{
			{
				RunID:      testRunID,
				Stage:      ledger.StageEngine,
				Kind:       string(ledger.KindInsufficientFunds),
				Type:       shared.CommandTypeWithdrawal,
				TxID:       9,
				ClientID:   1,
				Reason:     "insufficient funds: tx 9, client 1",
				RecordedAt: recordedAt,
			},
		}, int64(6), nil).Once()

		rr := serveRejections(t, svc, "/runs/"+testRunID+"/rejections?page=2&per_page=5")
		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Data          RejectionListResponse `json:"data"`
			Meta          MetaInfo              `json:"meta"`
			CorrelationID string                `json:"correlation_id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data.Rejections, 1)
		got := body.Data.Rejections[0]
		assert.Equal(t, "ENGINE", got.Stage)
		assert.Equal(t, "INSUFFICIENT_FUNDS", got.Kind)
		assert.Equal(t, uint32(9), got.Tx)
		assert.Equal(t, "2024-07-01T12:00:00Z", got.RecordedAt)
		assert.Equal(t, MetaInfo{Page: 2, PerPage: 5, TotalPages: 2, TotalItems: 6}, body.Meta)
		assert.Equal(t, "corr-rejections", body.CorrelationID)
		svc.AssertExpectations(t)
	})

	t.Run("DefaultPagination", func(t *testing.T) {
		svc := new(MockRejectionService)
		svc.On("ListRejections", mock.Anything, testRunID, 1, 50).Return([]*ledger.Rejection{}, int64(0), nil).Once()

		rr := serveRejections(t, svc, "/runs/"+testRunID+"/rejections")
		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidRunID", func(t *testing.T) {
		svc := new(MockRejectionService)
		rr := serveRejections(t, svc, "/runs/not-a-run/rejections")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		svc := new(MockRejectionService)
		rr := serveRejections(t, svc, "/runs/"+testRunID+"/rejections?per_page=1000")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("JournalDisabled", func(t *testing.T) {
		svc := new(MockRejectionService)
		svc.On("ListRejections", mock.Anything, testRunID, 1, 50).Return(nil, int64(0), service.ErrStoreDisabled).Once()

		rr := serveRejections(t, svc, "/runs/"+testRunID+"/rejections")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("StoreError", func(t *testing.T) {
		svc := new(MockRejectionService)
		svc.On("ListRejections", mock.Anything, testRunID, 1, 50).Return(nil, int64(0), errors.New("timeout")).Once()

		rr := serveRejections(t, svc, "/runs/"+testRunID+"/rejections")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestNewMetaInfo(t *testing.T) {
	assert.Equal(t, 0, NewMetaInfo(1, 10, 0).TotalPages)
	assert.Equal(t, 1, NewMetaInfo(1, 10, 10).TotalPages)
	assert.Equal(t, 2, NewMetaInfo(1, 10, 11).TotalPages)
}
