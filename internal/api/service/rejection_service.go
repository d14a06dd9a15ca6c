package service

import (
	"context"

	"github.com/transaction-ledger/internal/domain/ledger"
)

// RejectionServiceImpl implements the RejectionService interface
type RejectionServiceImpl struct {
	rejectionRepo ledger.RejectionRepository
}

// NewRejectionService creates a new rejection service. rejectionRepo may be nil.
func NewRejectionService(rejectionRepo ledger.RejectionRepository) RejectionService {
	return &RejectionServiceImpl{
		rejectionRepo: rejectionRepo,
	}
}

// ListRejections retrieves paginated rejections for a run
func (s *RejectionServiceImpl) ListRejections(ctx context.Context, runID string, page, perPage int) ([]*ledger.Rejection, int64, error) {
	if s.rejectionRepo == nil {
		return nil, 0, ErrStoreDisabled
	}

	total, err := s.rejectionRepo.CountByRunID(ctx, runID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*ledger.Rejection{}, 0, nil
	}

	offset := (page - 1) * perPage
	rejections, err := s.rejectionRepo.GetByRunID(ctx, runID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	return rejections, total, nil
}
