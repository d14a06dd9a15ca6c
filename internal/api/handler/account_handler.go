package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/transaction-ledger/internal/api/service"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
	"github.com/transaction-ledger/internal/engine"
)

// AccountHandler serves live account state and persisted snapshots
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// List returns every account known to the running ledger
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, snap := range accounts {
		response.Accounts = append(response.Accounts, mapSnapshotToResponse(snap))
	}
	RespondOK(c, response)
}

// GetByClient returns the live state of one account
func (h *AccountHandler) GetByClient(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	snap, err := h.accountService.GetAccount(c.Request.Context(), clientID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapSnapshotToResponse(*snap))
}

// GetLatestSnapshot returns the last snapshot persisted for a client
func (h *AccountHandler) GetLatestSnapshot(c *gin.Context) {
	clientID, ok := h.parseClientID(c)
	if !ok {
		return
	}

	snap, err := h.accountService.GetLatestSnapshot(c.Request.Context(), clientID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapSnapshotToResponse(*snap))
}

func (h *AccountHandler) parseClientID(c *gin.Context) (shared.ClientID, bool) {
	param := c.Param("client")
	id, err := strconv.ParseUint(param, 10, 16)
	if err != nil {
		h.logger.Warn("Invalid client ID", "client", param, "error", err)
		RespondBadRequest(c, "Invalid client ID")
		return 0, false
	}
	return shared.ClientID(id), true
}

func (h *AccountHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrSnapshotNotFound{}):
		RespondNotFound(c, "No snapshot stored for client")
	case errors.Is(err, engine.ErrNotRunning):
		RespondServiceUnavailable(c, "Ledger is not running")
	case errors.Is(err, service.ErrStoreDisabled):
		RespondServiceUnavailable(c, "Snapshot store is not configured")
	default:
		h.logger.Error("Failed to query accounts", "error", err)
		RespondInternalError(c)
	}
}

// mapSnapshotToResponse maps an account snapshot to an account response DTO
func mapSnapshotToResponse(snap account.Snapshot) AccountResponse {
	return AccountResponse{
		Client:     uint16(snap.ClientID),
		Available:  shared.FormatAmount(snap.Available),
		Held:       shared.FormatAmount(snap.Held),
		Total:      shared.FormatAmount(snap.Total),
		Locked:     snap.Locked,
		LockReason: string(snap.LockReason),
	}
}
