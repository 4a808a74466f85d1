package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coop/internal/domain/models"
)

// opTimeout bounds every single store access; slower calls surface as
// StoreUnavailable instead of hanging an operator request.
const opTimeout = 5 * time.Second

// FarmerStore persists enrollment records.
type FarmerStore interface {
	CreateFarmer(ctx context.Context, farmer models.Farmer) error
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	UpdateFarmerBank(ctx context.Context, id string, bank models.BankDetails) error
}

// StockStore persists input-supply batches.
type StockStore interface {
	CreateStockItem(ctx context.Context, item models.StockItem) error
	GetStockItem(ctx context.Context, id string) (models.StockItem, error)
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
}

// LedgerStore persists sales and advances, the deduction side of settlement.
// CreateSale must take the sold quantity out of the referenced batch and
// insert the sale atomically; a decrement without a sale shorts the batch.
type LedgerStore interface {
	CreateSale(ctx context.Context, sale models.Sale, itemID string) error
	CreateAdvance(ctx context.Context, advance models.Advance) error
	ListSalesByFarmer(ctx context.Context, farmerID string) ([]models.Sale, error)
	ListAdvancesByFarmer(ctx context.Context, farmerID string) ([]models.Advance, error)
	ListOutstandingSales(ctx context.Context, farmerID string) ([]models.Sale, error)
	ListOutstandingAdvances(ctx context.Context, farmerID string) ([]models.Advance, error)
	ListSalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error)
	ListAdvancesBetween(ctx context.Context, start, end time.Time) ([]models.Advance, error)
}

// SampleStore persists crop quality-test records.
type SampleStore interface {
	CreateSample(ctx context.Context, sample models.Sample) error
	GetSample(ctx context.Context, id string) (models.Sample, error)
	UpdateSample(ctx context.Context, sample models.Sample) error
	ListSamplesByFarmer(ctx context.Context, farmerID string) ([]models.Sample, error)
}

// SettlementStore persists confirmed settlements. ConfirmSettlement must
// write the settlement and mark the contributing sales/advances absorbed in
// one atomic transaction; a half-applied confirm double-deducts later.
type SettlementStore interface {
	ConfirmSettlement(ctx context.Context, settlement models.Settlement, saleIDs, advanceIDs []string) error
	ListSettlementsByFarmer(ctx context.Context, farmerID string) ([]models.Settlement, error)
	ListSettlementsBetween(ctx context.Context, start, end time.Time) ([]models.Settlement, error)
}

// Store is the full record-store surface the services depend on.
type Store interface {
	FarmerStore
	StockStore
	LedgerStore
	SampleStore
	SettlementStore
}

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) farmers() *mongo.Collection     { return s.db.Collection("farmers") }
func (s *MongoStore) stock() *mongo.Collection       { return s.db.Collection("stock_items") }
func (s *MongoStore) sales() *mongo.Collection       { return s.db.Collection("sales") }
func (s *MongoStore) advances() *mongo.Collection    { return s.db.Collection("advances") }
func (s *MongoStore) samples() *mongo.Collection     { return s.db.Collection("samples") }
func (s *MongoStore) settlements() *mongo.Collection { return s.db.Collection("settlements") }

func withOpTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
