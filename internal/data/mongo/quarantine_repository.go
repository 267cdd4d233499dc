package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momo-sms-pipeline/internal/domain/quarantine"
)

const (
	// QuarantineCollectionName is the name of the quarantine collection in MongoDB
	QuarantineCollectionName = "quarantined_messages"
)

// QuarantineRepository implements the quarantine.Repository interface for MongoDB
type QuarantineRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewQuarantineRepository creates a new MongoDB quarantine repository
func NewQuarantineRepository(logger *slog.Logger, db *mongo.Database) quarantine.Repository {
	return &QuarantineRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a quarantine record. The collection is append-only: records
// are never replaced, only marked resolved later.
func (r *QuarantineRepository) Append(ctx context.Context, record *quarantine.Record) error {
	collection := r.db.Collection(QuarantineCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to append quarantine record",
			"id", record.ID.String(),
			"reason", string(record.Reason),
			"error", err)
		return fmt.Errorf("failed to append quarantine record: %w", err)
	}

	return nil
}

// ListUnresolved retrieves records that have not been resolved yet, oldest
// first so the reparse pass drains the backlog in arrival order.
func (r *QuarantineRepository) ListUnresolved(ctx context.Context, limit int) ([]*quarantine.Record, error) {
	collection := r.db.Collection(QuarantineCollectionName)

	filter := bson.M{"resolved_at": bson.M{"$exists": false}}
	opts := options.Find().
		SetSort(bson.M{"quarantined_at": 1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list unresolved quarantine records", "error", err)
		return nil, fmt.Errorf("failed to list unresolved quarantine records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*quarantine.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode quarantine records", "error", err)
		return nil, fmt.Errorf("failed to decode quarantine records: %w", err)
	}

	return records, nil
}

// ListRecent retrieves the newest records regardless of resolution state.
func (r *QuarantineRepository) ListRecent(ctx context.Context, limit int) ([]*quarantine.Record, error) {
	collection := r.db.Collection(QuarantineCollectionName)

	opts := options.Find().
		SetSort(bson.M{"quarantined_at": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list recent quarantine records", "error", err)
		return nil, fmt.Errorf("failed to list recent quarantine records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*quarantine.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode quarantine records", "error", err)
		return nil, fmt.Errorf("failed to decode quarantine records: %w", err)
	}

	return records, nil
}

// MarkResolved stamps the record's resolution time.
// Returns ErrRecordNotFound if the record doesn't exist.
func (r *QuarantineRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	collection := r.db.Collection(QuarantineCollectionName)

	filter := bson.M{"id": id}
	update := bson.M{
		"$set": bson.M{
			"resolved_at": time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to mark quarantine record resolved",
			"id", id.String(),
			"error", err)
		return fmt.Errorf("failed to mark quarantine record resolved: %w", err)
	}

	if result.MatchedCount == 0 {
		return quarantine.ErrRecordNotFound{ID: id}
	}

	return nil
}

// Count returns the total number of quarantine records.
func (r *QuarantineRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(QuarantineCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count quarantine records", "error", err)
		return 0, fmt.Errorf("failed to count quarantine records: %w", err)
	}

	return count, nil
}
