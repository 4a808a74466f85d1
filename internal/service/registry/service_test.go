package registry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeStore struct {
	farmers map[string]models.Farmer
	stock   map[string]models.StockItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		farmers: map[string]models.Farmer{},
		stock:   map[string]models.StockItem{},
	}
}

func (f *fakeStore) CreateFarmer(_ context.Context, farmer models.Farmer) error {
	f.farmers[farmer.ID] = farmer
	return nil
}

func (f *fakeStore) GetFarmer(_ context.Context, id string) (models.Farmer, error) {
	farmer, ok := f.farmers[id]
	if !ok {
		return models.Farmer{}, apperr.NotFound("farmer", id)
	}
	return farmer, nil
}

func (f *fakeStore) ListFarmers(context.Context) ([]models.Farmer, error) {
	var out []models.Farmer
	for _, farmer := range f.farmers {
		out = append(out, farmer)
	}
	return out, nil
}

func (f *fakeStore) UpdateFarmerBank(_ context.Context, id string, bank models.BankDetails) error {
	farmer, ok := f.farmers[id]
	if !ok {
		return apperr.NotFound("farmer", id)
	}
	farmer.Bank = bank
	f.farmers[id] = farmer
	return nil
}

func (f *fakeStore) CreateStockItem(_ context.Context, item models.StockItem) error {
	f.stock[item.ID] = item
	return nil
}

func (f *fakeStore) ListStockItems(context.Context) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range f.stock {
		out = append(out, item)
	}
	return out, nil
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, nil)
	svc.newID = func() string { return "id-1" }
	svc.now = func() time.Time { return time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC) }
	return svc
}

func validFarmerInput() FarmerInput {
	return FarmerInput{
		Name:        "Ravi Kumar",
		Village:     "Kothapalli",
		Aadhaar:     "123412341234",
		Mobile:      "9000000001",
		SowingAcre:  dec("2.5"),
		SeedPackets: 3,
	}
}

func TestEnrollFarmer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	in := validFarmerInput()
	in.Name = "  Ravi Kumar  "

	farmer, err := svc.EnrollFarmer(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "id-1", farmer.ID)
	assert.Equal(t, "Ravi Kumar", farmer.Name, "identity fields are trimmed on enrollment")
	assert.False(t, farmer.EnrolledAt.IsZero())
	assert.Contains(t, store.farmers, "id-1")
}

func TestEnrollFarmerValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	tests := []struct {
		name      string
		mutate    func(*FarmerInput)
		wantField string
	}{
		{"blank name", func(in *FarmerInput) { in.Name = " " }, "name"},
		{"blank village", func(in *FarmerInput) { in.Village = "" }, "village"},
		{"blank aadhaar", func(in *FarmerInput) { in.Aadhaar = "" }, "aadhaar"},
		{"blank mobile", func(in *FarmerInput) { in.Mobile = "" }, "mobile"},
		{"negative sowing acre", func(in *FarmerInput) { in.SowingAcre = dec("-1") }, "sowing_acre"},
		{"negative seed packets", func(in *FarmerInput) { in.SeedPackets = -1 }, "seed_packets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFarmerInput()
			tt.mutate(&in)
			_, err := svc.EnrollFarmer(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.wantField, apperr.FieldOf(err))
		})
	}
}

func TestUpdateBankDetails(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	enrolled, err := svc.EnrollFarmer(context.Background(), validFarmerInput())
	require.NoError(t, err)

	bank := models.BankDetails{AccountNumber: "0012345678", IFSCCode: "SBIN0001234", BankName: "SBI"}
	updated, err := svc.UpdateBankDetails(context.Background(), enrolled.ID, bank)
	require.NoError(t, err)

	assert.Equal(t, bank, updated.Bank)
	assert.Equal(t, enrolled.Aadhaar, updated.Aadhaar, "identity fields stay untouched")

	_, err = svc.UpdateBankDetails(context.Background(), "ghost", bank)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddStockItem(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	item, err := svc.AddStockItem(context.Background(), StockInput{
		Category: models.CategoryFertilizer,
		Name:     "Urea",
		Size:     "50kg",
		Quantity: dec("40"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryFertilizer, item.Category)
	assert.Contains(t, store.stock, item.ID)
}

func TestAddStockItemValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	tests := []struct {
		name      string
		in        StockInput
		wantField string
	}{
		{"bad category", StockInput{Category: "Machinery", Name: "Urea", Size: "50kg", Quantity: dec("1")}, "type"},
		{"blank name", StockInput{Category: models.CategoryFertilizer, Name: " ", Size: "50kg", Quantity: dec("1")}, "name"},
		{"blank size", StockInput{Category: models.CategoryFertilizer, Name: "Urea", Size: "", Quantity: dec("1")}, "size"},
		{"zero quantity", StockInput{Category: models.CategoryFertilizer, Name: "Urea", Size: "50kg", Quantity: decimal.Zero}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddStockItem(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.wantField, apperr.FieldOf(err))
		})
	}
}
