package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-ledger/internal/domain/account"
)

// SnapshotPublisher publishes the final account snapshots of a run
type SnapshotPublisher interface {
	PublishSnapshots(ctx context.Context, runID string, snapshots []account.Snapshot) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
