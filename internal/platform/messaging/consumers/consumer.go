package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/domain/shared"
)

// fetchRetryDelay is how long the source waits after a failed fetch
const fetchRetryDelay = time.Second

var errIncompleteRecord = errors.New("record is missing client or tx")

// KafkaReader wraps kafka.Reader methods for testing
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DeadLetterPublisher receives messages that cannot be decoded
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
}

// wireRecord is the JSON shape of a transaction record on the topic
type wireRecord struct {
	Type   string   `json:"type"`
	Client *uint16  `json:"client"`
	Tx     *uint32  `json:"tx"`
	Amount *float64 `json:"amount"`
}

// KafkaRecordSource streams transaction records from a topic in partition order
type KafkaRecordSource struct {
	reader KafkaReader
	dlq    DeadLetterPublisher
	topic  string
	logger *slog.Logger
}

// NewKafkaRecordSource creates a consumer-group reader on the record topic. dlq may be nil.
func NewKafkaRecordSource(logger *slog.Logger, cfg *config.KafkaConfig, dlq DeadLetterPublisher) *KafkaRecordSource {
	return &KafkaRecordSource{
		logger: logger.With("component", "kafka_record_source"),
		dlq:    dlq,
		topic:  cfg.RecordTopic,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.RecordTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
	}
}

// Stream decodes messages and sends them to out until ctx is done. A message is committed
// once it has been handed to the pipeline, or dead-lettered if it cannot be decoded.
// Stream does not close out.
func (s *KafkaRecordSource) Stream(ctx context.Context, out chan<- shared.RawRecord) error {
	s.logger.Info("Consuming transaction records", "topic", s.topic)

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("Context canceled, stopping record source", "topic", s.topic)
				return ctx.Err()
			}
			s.logger.Error("Failed to fetch message from Kafka", "topic", s.topic, "error", err)
			select {
			case <-time.After(fetchRetryDelay):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		s.logger.Debug("Received message from Kafka",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)

		record, err := decodeRecord(msg.Value)
		if err != nil {
			s.deadLetter(ctx, msg, err)
		} else {
			select {
			case out <- record:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			s.logger.Error("Failed to commit message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (s *KafkaRecordSource) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	s.logger.Warn("Skipping undecodable message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", cause,
	)
	if s.dlq == nil {
		return
	}
	if err := s.dlq.PublishToDLQ(ctx, string(msg.Key), msg.Value, cause.Error()); err != nil {
		s.logger.Error("Failed to dead-letter undecodable message", "offset", msg.Offset, "error", err)
	}
}

func decodeRecord(value []byte) (shared.RawRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(value, &w); err != nil {
		return shared.RawRecord{}, fmt.Errorf("invalid record payload: %w", err)
	}
	if w.Client == nil || w.Tx == nil {
		return shared.RawRecord{}, errIncompleteRecord
	}

	return shared.RawRecord{
		Type:     shared.ParseCommandType(w.Type),
		ClientID: shared.ClientID(*w.Client),
		TxID:     shared.TxID(*w.Tx),
		Amount:   w.Amount,
	}, nil
}

func (s *KafkaRecordSource) Close() error {
	if s.reader != nil {
		return s.reader.Close()
	}
	return nil
}
