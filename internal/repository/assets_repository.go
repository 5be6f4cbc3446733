package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/models"
)

// AssetsRepository keeps the bookkeeping ledger of files stored in object
// storage: one record per stored file.
type AssetsRepository struct {
	assets *mongo.Collection
}

func NewAssetsRepository(db *mongo.Database) *AssetsRepository {
	return &AssetsRepository{assets: db.Collection("assets")}
}

// Record inserts a ledger entry for a stored file.
func (r *AssetsRepository) Record(ctx context.Context, asset *models.Asset) error {
	_, err := r.assets.InsertOne(ctx, asset)
	return err
}

// ListByRef returns the ledger entries attached to a reference, newest
// first.
func (r *AssetsRepository) ListByRef(ctx context.Context, tenantID, refType, refID string) ([]models.Asset, error) {
	filter := bson.M{"tenantId": tenantID, "refType": refType}
	if refID != "" {
		filter["refId"] = refID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.assets.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}
