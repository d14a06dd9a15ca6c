// Package mongo provides the MongoDB implementation of the rejection journal store
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transaction-ledger/internal/domain/ledger"
)

const (
	// RejectionCollectionName is the name of the rejection journal collection in MongoDB
	RejectionCollectionName = "rejections"
)

// RejectionRepository implements the ledger.RejectionRepository interface for MongoDB
type RejectionRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewRejectionRepository creates a new MongoDB rejection repository
func NewRejectionRepository(logger *slog.Logger, db *mongo.Database) *RejectionRepository {
	return &RejectionRepository{
		collection: db.Collection(RejectionCollectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the index used to list a run's rejections
func (r *RejectionRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "recorded_at", Value: 1}},
		Options: options.Index().SetName("run_id_recorded_at"),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create rejection indexes: %w", err)
	}
	return nil
}

// Create appends an entry to the journal. Entries are never deduplicated: the same
// command rejected twice is journaled twice.
func (r *RejectionRepository) Create(ctx context.Context, rejection *ledger.Rejection) error {
	if _, err := r.collection.InsertOne(ctx, rejection); err != nil {
		r.logger.Error("Failed to create rejection entry",
			"run_id", rejection.RunID,
			"tx_id", rejection.TxID,
			"error", err)
		return fmt.Errorf("failed to create rejection entry: %w", err)
	}
	return nil
}

// CountByRunID counts the entries of one run
func (r *RejectionRepository) CountByRunID(ctx context.Context, runID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"run_id": runID})
	if err != nil {
		r.logger.Error("Failed to count rejection entries", "run_id", runID, "error", err)
		return 0, fmt.Errorf("failed to count rejection entries: %w", err)
	}
	return count, nil
}

// GetByRunID returns a page of a run's entries in the order they were recorded
func (r *RejectionRepository) GetByRunID(ctx context.Context, runID string, limit, offset int) ([]*ledger.Rejection, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"run_id": runID}, opts)
	if err != nil {
		r.logger.Error("Failed to get rejection entries", "run_id", runID, "error", err)
		return nil, fmt.Errorf("failed to get rejection entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*ledger.Rejection
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode rejection entries", "run_id", runID, "error", err)
		return nil, fmt.Errorf("failed to decode rejection entries: %w", err)
	}

	return entries, nil
}
