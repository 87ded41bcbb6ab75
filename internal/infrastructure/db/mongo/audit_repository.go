package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

const adjustmentsCollection = "adjustments"

// AuditRepository appends adjustments to the adjustments collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(adjustmentsCollection)}
}

func (r *AuditRepository) Record(ctx context.Context, adj domain.Adjustment) error {
	_, err := r.col.InsertOne(ctx, adj)
	return err
}

// EnsureIndexes creates the lookup indexes of the adjustments collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "target", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
