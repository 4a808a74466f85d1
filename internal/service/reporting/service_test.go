package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coop/internal/domain/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeStore struct {
	farmers     []models.Farmer
	stock       []models.StockItem
	sales       []models.Sale
	advances    []models.Advance
	settlements []models.Settlement
}

func (f *fakeStore) ListFarmers(context.Context) ([]models.Farmer, error) { return f.farmers, nil }

func (f *fakeStore) ListStockItems(context.Context) ([]models.StockItem, error) {
	return f.stock, nil
}

func (f *fakeStore) ListSalesBetween(_ context.Context, start, end time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range f.sales {
		if !sale.SoldAt.Before(start) && sale.SoldAt.Before(end) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAdvancesBetween(_ context.Context, start, end time.Time) ([]models.Advance, error) {
	var out []models.Advance
	for _, advance := range f.advances {
		if !advance.GivenAt.Before(start) && advance.GivenAt.Before(end) {
			out = append(out, advance)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSettlementsBetween(_ context.Context, start, end time.Time) ([]models.Settlement, error) {
	var out []models.Settlement
	for _, settlement := range f.settlements {
		if !settlement.SettledAt.Before(start) && settlement.SettledAt.Before(end) {
			out = append(out, settlement)
		}
	}
	return out, nil
}

func TestDashboardStats(t *testing.T) {
	day := time.Date(2025, 11, 12, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		farmers: []models.Farmer{{ID: "f1"}, {ID: "f2"}},
		stock: []models.StockItem{
			{ID: "i1", Category: models.CategoryPesticide, Quantity: dec("10")},
			{ID: "i2", Category: models.CategoryPesticide, Quantity: dec("5")},
			{ID: "i3", Category: models.CategoryFertilizer, Quantity: dec("40")},
		},
		sales: []models.Sale{
			{ID: "s1", TotalAmount: dec("300"), SoldAt: day},
			{ID: "s2", TotalAmount: dec("200"), SoldAt: day.AddDate(0, 0, -30)},
		},
		advances: []models.Advance{
			{ID: "a1", Amount: dec("150"), GivenAt: day},
		},
	}

	svc := NewService(store, nil)
	svc.now = func() time.Time { return day }

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalFarmers)
	assert.True(t, stats.TotalSalesAmount.Equal(dec("500")), "dashboard totals are all-time")
	assert.True(t, stats.TotalAdvances.Equal(dec("150")))
	assert.True(t, stats.StockSummary[models.CategoryPesticide].Equal(dec("15")))
	assert.True(t, stats.StockSummary[models.CategoryFertilizer].Equal(dec("40")))
}

func TestDailyReport(t *testing.T) {
	day := time.Date(2025, 11, 12, 15, 30, 0, 0, time.UTC)
	previous := day.AddDate(0, 0, -1)

	store := &fakeStore{
		sales: []models.Sale{
			{ID: "s1", TotalAmount: dec("300"), SoldAt: day},
			{ID: "s2", TotalAmount: dec("200"), SoldAt: day.Add(2 * time.Hour)},
			{ID: "old", TotalAmount: dec("999"), SoldAt: previous},
		},
		advances: []models.Advance{
			{ID: "a1", Amount: dec("150"), GivenAt: day},
			{ID: "old", Amount: dec("888"), GivenAt: previous},
		},
		settlements: []models.Settlement{
			{ID: "stl1", NetPayable: dec("4300"), SettledAt: day},
		},
	}

	svc := NewService(store, nil)
	svc.now = func() time.Time { return day }

	report, err := svc.DailyReport(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, 2, report.SalesCount)
	assert.True(t, report.SalesAmount.Equal(dec("500")), "previous day's records stay out")
	assert.Equal(t, 1, report.AdvancesCount)
	assert.True(t, report.AdvancesAmount.Equal(dec("150")))
	assert.Equal(t, 1, report.SettlementsCount)
	assert.True(t, report.NetPaidOut.Equal(dec("4300")))
}

func TestFormatDailyReport(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	message := svc.FormatDailyReport(models.DailyReport{
		Date:             time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
		SalesCount:       2,
		SalesAmount:      dec("500"),
		AdvancesCount:    1,
		AdvancesAmount:   dec("150"),
		SettlementsCount: 1,
		NetPaidOut:       dec("4300"),
	})

	assert.Equal(t, "Day-book 2025-11-12: 2 sales for 500.00, 1 advances for 150.00, 1 settlements paying out 4300.00.", message)
}
