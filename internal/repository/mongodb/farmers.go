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

// CreateFarmer inserts a new enrollment record.
func (s *MongoStore) CreateFarmer(ctx context.Context, farmer models.Farmer) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	if _, err := s.farmers().InsertOne(ctx, farmerToDoc(farmer)); err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// GetFarmer fetches a farmer by id.
func (s *MongoStore) GetFarmer(ctx context.Context, id string) (models.Farmer, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	var doc farmerDoc
	err := s.farmers().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Farmer{}, apperr.NotFound("farmer", id)
	}
	if err != nil {
		return models.Farmer{}, apperr.StoreUnavailable(err)
	}

	farmer, err := doc.toDomain()
	if err != nil {
		return models.Farmer{}, apperr.StoreUnavailable(err)
	}
	return farmer, nil
}

// ListFarmers returns every enrolled farmer, newest first.
func (s *MongoStore) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}})
	cursor, err := s.farmers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var farmers []models.Farmer
	for cursor.Next(ctx) {
		var doc farmerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		farmer, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		farmers = append(farmers, farmer)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return farmers, nil
}

// UpdateFarmerBank replaces the mutable bank details; identity fields stay untouched.
func (s *MongoStore) UpdateFarmerBank(ctx context.Context, id string, bank models.BankDetails) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"account_number": bank.AccountNumber,
		"ifsc_code":      bank.IFSCCode,
		"bank_name":      bank.BankName,
	}}
	res, err := s.farmers().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("farmer", id)
	}
	return nil
}
