package ledger

import (
	"context"
	"time"

	"github.com/transaction-ledger/internal/domain/shared"
)

// RejectionStage names the pipeline stage that dropped a record
type RejectionStage string

const (
	StageNormalizer RejectionStage = "NORMALIZER"
	StageEngine     RejectionStage = "ENGINE"
)

// Rejection is a journal entry for a dropped record or command
type Rejection struct {
	RunID      string             `json:"run_id" bson:"run_id"`
	Stage      RejectionStage     `json:"stage" bson:"stage"`
	Kind       string             `json:"kind" bson:"kind"`
	Type       shared.CommandType `json:"type" bson:"type"`
	TxID       shared.TxID        `json:"tx_id" bson:"tx_id"`
	ClientID   shared.ClientID    `json:"client_id" bson:"client_id"`
	Reason     string             `json:"reason" bson:"reason"`
	RecordedAt time.Time          `json:"recorded_at" bson:"recorded_at"`
}

// RejectionRepository stores rejected commands for later inspection
type RejectionRepository interface {
	Create(ctx context.Context, rejection *Rejection) error
	CountByRunID(ctx context.Context, runID string) (int64, error)
	GetByRunID(ctx context.Context, runID string, limit, offset int) ([]*Rejection, error)
}
