package repository

import (
	"context"
	"time"

	"epinera-marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "audit_logs"

// AuditRepository defines the interface for the append-only audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, action string, limit int64) ([]models.AuditLog, error)
}

// MongoAuditRepository implements AuditRepository on MongoDB.
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates a new MongoAuditRepository.
func NewMongoAuditRepository(db *mongo.Database) AuditRepository {
	return &MongoAuditRepository{collection: db.Collection(auditCollection)}
}

// Record appends one audit entry, stamping the creation time.
func (r *MongoAuditRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// List returns audit entries newest first, optionally filtered by action.
func (r *MongoAuditRepository) List(ctx context.Context, action string, limit int64) ([]models.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	filter := bson.M{}
	if action != "" {
		filter["action"] = action
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
