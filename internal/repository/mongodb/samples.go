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

// CreateSample inserts a new quality-test record.
func (s *MongoStore) CreateSample(ctx context.Context, sample models.Sample) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	if _, err := s.samples().InsertOne(ctx, sampleToDoc(sample)); err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// GetSample fetches one sample by id.
func (s *MongoStore) GetSample(ctx context.Context, id string) (models.Sample, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	var doc sampleDoc
	err := s.samples().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sample{}, apperr.NotFound("sample", id)
	}
	if err != nil {
		return models.Sample{}, apperr.StoreUnavailable(err)
	}

	sample, err := doc.toDomain()
	if err != nil {
		return models.Sample{}, apperr.StoreUnavailable(err)
	}
	return sample, nil
}

// UpdateSample replaces the stored sample with the given record.
func (s *MongoStore) UpdateSample(ctx context.Context, sample models.Sample) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	res, err := s.samples().ReplaceOne(ctx, bson.M{"_id": sample.ID}, sampleToDoc(sample))
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("sample", sample.ID)
	}
	return nil
}

// ListSamplesByFarmer returns the farmer's samples, most recent first.
func (s *MongoStore) ListSamplesByFarmer(ctx context.Context, farmerID string) ([]models.Sample, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sample_date", Value: -1}})
	cursor, err := s.samples().Find(ctx, bson.M{"farmer_id": farmerID}, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var samples []models.Sample
	for cursor.Next(ctx) {
		var doc sampleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		sample, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		samples = append(samples, sample)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return samples, nil
}
