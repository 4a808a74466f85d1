package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
)

// CreateSale takes the sold quantity out of the referenced batch and inserts
// the sale inside one transaction. Either both writes land or neither does,
// so a failed insert can never leave the batch short, and two concurrent
// sales cannot both take the last units.
func (s *MongoStore) CreateSale(ctx context.Context, sale models.Sale, itemID string) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	session, err := s.client.StartSession()
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc stockItemDoc
		if err := s.stock().FindOne(sc, bson.M{"_id": itemID}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.NotFound("stock item", itemID)
			}
			return nil, err
		}

		var p decimalParser
		onHand := p.parse("quantity", doc.Quantity)
		if p.err != nil {
			return nil, p.err
		}

		remaining := onHand.Sub(sale.Quantity)
		if remaining.IsNegative() {
			return nil, apperr.Conflict("insufficient stock for item " + itemID)
		}

		if _, err := s.stock().UpdateOne(sc, bson.M{"_id": itemID},
			bson.M{"$set": bson.M{"quantity": remaining.String()}}); err != nil {
			return nil, err
		}

		_, err := s.sales().InsertOne(sc, saleToDoc(sale))
		return nil, err
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindStoreUnavailable {
			return err
		}
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// CreateAdvance inserts a cash disbursement record.
func (s *MongoStore) CreateAdvance(ctx context.Context, advance models.Advance) error {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	if _, err := s.advances().InsertOne(ctx, advanceToDoc(advance)); err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// ListSalesByFarmer returns every sale for the farmer, newest first.
func (s *MongoStore) ListSalesByFarmer(ctx context.Context, farmerID string) ([]models.Sale, error) {
	return s.findSales(ctx, bson.M{"farmer_id": farmerID})
}

// ListAdvancesByFarmer returns every advance for the farmer, newest first.
func (s *MongoStore) ListAdvancesByFarmer(ctx context.Context, farmerID string) ([]models.Advance, error) {
	return s.findAdvances(ctx, bson.M{"farmer_id": farmerID})
}

// ListOutstandingSales returns the farmer's sales no settlement has absorbed yet.
func (s *MongoStore) ListOutstandingSales(ctx context.Context, farmerID string) ([]models.Sale, error) {
	return s.findSales(ctx, bson.M{"farmer_id": farmerID, "absorbed": false})
}

// ListOutstandingAdvances returns the farmer's advances no settlement has absorbed yet.
func (s *MongoStore) ListOutstandingAdvances(ctx context.Context, farmerID string) ([]models.Advance, error) {
	return s.findAdvances(ctx, bson.M{"farmer_id": farmerID, "absorbed": false})
}

// ListSalesBetween returns sales recorded in [start, end).
func (s *MongoStore) ListSalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	return s.findSales(ctx, bson.M{"sold_at": bson.M{"$gte": start, "$lt": end}})
}

// ListAdvancesBetween returns advances recorded in [start, end).
func (s *MongoStore) ListAdvancesBetween(ctx context.Context, start, end time.Time) ([]models.Advance, error) {
	return s.findAdvances(ctx, bson.M{"given_at": bson.M{"$gte": start, "$lt": end}})
}

func (s *MongoStore) findSales(ctx context.Context, filter bson.M) ([]models.Sale, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sold_at", Value: -1}})
	cursor, err := s.sales().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var sales []models.Sale
	for cursor.Next(ctx) {
		var doc saleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		sale, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		sales = append(sales, sale)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return sales, nil
}

func (s *MongoStore) findAdvances(ctx context.Context, filter bson.M) ([]models.Advance, error) {
	ctx, cancel := withOpTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "given_at", Value: -1}})
	cursor, err := s.advances().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var advances []models.Advance
	for cursor.Next(ctx) {
		var doc advanceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		advance, err := doc.toDomain()
		if err != nil {
			return nil, apperr.StoreUnavailable(err)
		}
		advances = append(advances, advance)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return advances, nil
}
