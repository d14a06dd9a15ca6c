package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
)

// snapshotMessage is the wire form of an account snapshot. Amounts carry four decimal places.
type snapshotMessage struct {
	RunID      string `json:"run_id"`
	Client     uint16 `json:"client"`
	Available  string `json:"available"`
	Held       string `json:"held"`
	Total      string `json:"total"`
	Locked     bool   `json:"locked"`
	LockReason string `json:"lock_reason,omitempty"`
	CapturedAt string `json:"captured_at"`
}

// SnapshotProducer publishes account snapshots keyed by client, so each client's
// history lands on a single partition
type SnapshotProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewSnapshotProducer ensures the snapshot topic exists and returns a synchronous producer for it
func NewSnapshotProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*SnapshotProducer, error) {
	if cfg.SnapshotTopic == "" {
		return nil, fmt.Errorf("kafka snapshot topic is not configured")
	}
	logger = logger.With("component", "snapshot_producer")

	if err := ensureTopic(cfg.Brokers, cfg.SnapshotTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot topic %s exists: %w", cfg.SnapshotTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SnapshotTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &SnapshotProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SnapshotTopic,
	}, nil
}

// PublishSnapshots writes every snapshot of the run in a single batch
func (p *SnapshotProducer) PublishSnapshots(ctx context.Context, runID string, snapshots []account.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	capturedAt := time.Now().UTC().Format(time.RFC3339Nano)
	msgs := make([]kafka.Message, 0, len(snapshots))
	for _, s := range snapshots {
		value, err := json.Marshal(snapshotMessage{
			RunID:      runID,
			Client:     uint16(s.ClientID),
			Available:  shared.FormatAmount(s.Available),
			Held:       shared.FormatAmount(s.Held),
			Total:      shared.FormatAmount(s.Total),
			Locked:     s.Locked,
			LockReason: string(s.LockReason),
			CapturedAt: capturedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot for client %d: %w", s.ClientID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatUint(uint64(s.ClientID), 10)),
			Value: value,
			Headers: []kafka.Header{
				{Key: "run-id", Value: []byte(runID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish snapshots",
			"topic", p.topic,
			"run_id", runID,
			"count", len(msgs),
			"error", err,
		)
		return fmt.Errorf("failed to publish snapshots to %s: %w", p.topic, err)
	}

	p.logger.Info("Published account snapshots", "topic", p.topic, "run_id", runID, "count", len(msgs))
	return nil
}

func (p *SnapshotProducer) Close() error {
	p.logger.Info("Closing snapshot Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
