package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/transaction-ledger/internal/api/service"
	"github.com/transaction-ledger/internal/domain/ledger"
)

// RejectionHandler serves the rejection journal
type RejectionHandler struct {
	rejectionService service.RejectionService
	logger           *slog.Logger
}

// NewRejectionHandler creates a new rejection handler
func NewRejectionHandler(logger *slog.Logger, rejectionService service.RejectionService) *RejectionHandler {
	return &RejectionHandler{
		rejectionService: rejectionService,
		logger:           logger,
	}
}

// ListByRun returns one page of the rejections journaled for a run
func (h *RejectionHandler) ListByRun(c *gin.Context) {
	runID := c.Param("run_id")
	if _, err := uuid.Parse(runID); err != nil {
		h.logger.Warn("Invalid run ID", "run_id", runID, "error", err)
		RespondBadRequest(c, "Invalid run ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	rejections, total, err := h.rejectionService.ListRejections(c.Request.Context(), runID, pagination.Page, pagination.PerPage)
	if err != nil {
		if errors.Is(err, service.ErrStoreDisabled) {
			RespondServiceUnavailable(c, "Rejection journal is not configured")
			return
		}
		h.logger.Error("Failed to list rejections", "run_id", runID, "error", err)
		RespondInternalError(c)
		return
	}

	response := RejectionListResponse{Rejections: make([]RejectionResponse, 0, len(rejections))}
	for _, r := range rejections {
		response.Rejections = append(response.Rejections, mapRejectionToResponse(r))
	}
	RespondPaginated(c, response, pagination.Page, pagination.PerPage, total)
}

func mapRejectionToResponse(r *ledger.Rejection) RejectionResponse {
	return RejectionResponse{
		RunID:      r.RunID,
		Stage:      string(r.Stage),
		Kind:       r.Kind,
		Type:       string(r.Type),
		Tx:         uint32(r.TxID),
		Client:     uint16(r.ClientID),
		Reason:     r.Reason,
		RecordedAt: r.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
}
