package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
)

// CreateStockItem inserts a new input-supply batch.
func (s *MongoStore) CreateStockItem(ctx context.Context, item models.StockItem) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	if _, err := s.stock().InsertOne(ctx, stockItemToDoc(item)); err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// GetStockItem fetches one batch by id.
func (s *MongoStore) GetStockItem(ctx context.Context, id string) (models.StockItem, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	var doc stockItemDoc
	err := s.stock().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, apperr.NotFound("stock item", id)
	}
	if err != nil {
		return models.StockItem{}, apperr.StoreUnavailable(err)
	}

	item, err := doc.toDomain()
	if err != nil {
		return models.StockItem{}, apperr.StoreUnavailable(err)
	}
	return item, nil
}

// ListStockItems returns all batches, newest first.
func (s *MongoStore) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cursor, err := s.stock().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var items []models.StockItem
	for cursor.Next(ctx) {
		var doc stockItemDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return items, nil
}
