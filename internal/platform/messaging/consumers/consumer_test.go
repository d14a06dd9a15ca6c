package consumers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/transaction-ledger/internal/config"
	"github.com/transaction-ledger/internal/domain/shared"
)

type MockKafkaReader struct {
	mock.Mock
}

func (m *MockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *MockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaReader) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewKafkaRecordSource(t *testing.T) {
	cfg := &config.KafkaConfig{
		Brokers:       "localhost:9092",
		RecordTopic:   "test-topic",
		ConsumerGroup: "test-group",
		MinBytes:      1,
		MaxBytes:      10240,
		MaxWait:       time.Second,
	}

	source := NewKafkaRecordSource(newTestLogger(), cfg, nil)
	require.NotNil(t, source)
	require.NotNil(t, source.reader, "Kafka reader should be initialized")
	assert.Equal(t, "test-topic", source.topic)
	assert.NoError(t, source.Close())
}

func TestKafkaRecordSource_Stream(t *testing.T) {
	reader := new(MockKafkaReader)
	dlq := new(MockDeadLetterPublisher)
	source := &KafkaRecordSource{reader: reader, dlq: dlq, topic: "records", logger: newTestLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := kafka.Message{Topic: "records", Offset: 1, Key: []byte("1"), Value: []byte(`{"type":"Deposit","client":1,"tx":7,"amount":2.5}`)}
	dispute := kafka.Message{Topic: "records", Offset: 2, Key: []byte("1"), Value: []byte(`{"type":"dispute","client":1,"tx":7}`)}
	broken := kafka.Message{Topic: "records", Offset: 3, Key: []byte("bad"), Value: []byte(`{not json`)}

	reader.On("FetchMessage", mock.Anything).Return(good, nil).Once()
	reader.On("FetchMessage", mock.Anything).Return(broken, nil).Once()
	reader.On("FetchMessage", mock.Anything).Return(dispute, nil).Once()
	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(kafka.Message{}, context.Canceled).Once()
	reader.On("CommitMessages", mock.Anything, mock.Anything).Return(nil).Times(3)
	dlq.On("PublishToDLQ", mock.Anything, "bad", []byte(`{not json`), mock.AnythingOfType("string")).Return(nil).Once()

	out := make(chan shared.RawRecord, 4)
	err := source.Stream(ctx, out)
	assert.ErrorIs(t, err, context.Canceled)
	close(out)

	var records []shared.RawRecord
	for r := range out {
		records = append(records, r)
	}
	require.Len(t, records, 2)
	assert.Equal(t, shared.CommandTypeDeposit, records[0].Type)
	assert.Equal(t, shared.TxID(7), records[0].TxID)
	require.NotNil(t, records[0].Amount)
	assert.InDelta(t, 2.5, *records[0].Amount, 1e-9)
	assert.Equal(t, shared.CommandTypeDispute, records[1].Type)
	assert.Nil(t, records[1].Amount)

	reader.AssertExpectations(t)
	dlq.AssertExpectations(t)
}

func TestKafkaRecordSource_RetriesFetchErrors(t *testing.T) {
	reader := new(MockKafkaReader)
	source := &KafkaRecordSource{reader: reader, topic: "records", logger: newTestLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
	}).Return(kafka.Message{}, errors.New("broker unavailable")).Once()

	err := source.Stream(ctx, make(chan shared.RawRecord))
	assert.ErrorIs(t, err, context.Canceled)
	reader.AssertExpectations(t)
}

func TestDecodeRecord(t *testing.T) {
	t.Run("MissingTx", func(t *testing.T) {
		_, err := decodeRecord([]byte(`{"type":"deposit","client":1,"amount":1}`))
		assert.ErrorIs(t, err, errIncompleteRecord)
	})

	t.Run("ClientOutOfRange", func(t *testing.T) {
		_, err := decodeRecord([]byte(`{"type":"deposit","client":70000,"tx":1,"amount":1}`))
		assert.Error(t, err)
	})

	t.Run("UnknownTypeIsLeftToNormalizer", func(t *testing.T) {
		record, err := decodeRecord([]byte(`{"type":"transfer","client":1,"tx":1}`))
		require.NoError(t, err)
		assert.Equal(t, shared.CommandTypeUnknown, record.Type)
	})
}

func TestKafkaRecordSource_CloseWithNilReader(t *testing.T) {
	source := &KafkaRecordSource{reader: nil, logger: newTestLogger()}
	require.NoError(t, source.Close(), "Close should return nil if reader is nil")
}
