package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
)

// ConfirmSettlement writes the settlement and stamps the contributing sales
// and advances as absorbed, all inside one transaction. Either everything
// lands or nothing does; a settlement without absorption would double-deduct
// the same records at the next settlement.
func (s *MongoStore) ConfirmSettlement(ctx context.Context, settlement models.Settlement, saleIDs, advanceIDs []string) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	session, err := s.client.StartSession()
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.settlements().InsertOne(sc, settlementToDoc(settlement)); err != nil {
			return nil, err
		}

		mark := bson.M{"$set": bson.M{"absorbed": true, "settlement_id": settlement.ID}}
		if len(saleIDs) > 0 {
			if _, err := s.sales().UpdateMany(sc, bson.M{"_id": bson.M{"$in": saleIDs}}, mark); err != nil {
				return nil, err
			}
		}
		if len(advanceIDs) > 0 {
			if _, err := s.advances().UpdateMany(sc, bson.M{"_id": bson.M{"$in": advanceIDs}}, mark); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// ListSettlementsByFarmer returns the farmer's settlement history, newest first.
func (s *MongoStore) ListSettlementsByFarmer(ctx context.Context, farmerID string) ([]models.Settlement, error) {
	return s.findSettlements(ctx, bson.M{"farmer_id": farmerID})
}

// ListSettlementsBetween returns settlements confirmed in [start, end).
func (s *MongoStore) ListSettlementsBetween(ctx context.Context, start, end time.Time) ([]models.Settlement, error) {
	return s.findSettlements(ctx, bson.M{"settlement_date": bson.M{"$gte": start, "$lt": end}})
}

func (s *MongoStore) findSettlements(ctx context.Context, filter bson.M) ([]models.Settlement, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "settlement_date", Value: -1}})
	cursor, err := s.settlements().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var settlements []models.Settlement
	for cursor.Next(ctx) {
		var doc settlementDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		settlement, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		settlements = append(settlements, settlement)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return settlements, nil
}
