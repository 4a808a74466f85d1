package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Store is the record-store slice the reporting service reads from.
type Store interface {
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	ListSalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error)
	ListAdvancesBetween(ctx context.Context, start, end time.Time) ([]models.Advance, error)
	ListSettlementsBetween(ctx context.Context, start, end time.Time) ([]models.Settlement, error)
}

// Service produces the dashboard summary and the day-book report.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// epoch is early enough to cover every record the cooperative has.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DashboardStats aggregates the at-a-glance numbers for the back-office home page.
func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	farmers, err := s.store.ListFarmers(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	items, err := s.store.ListStockItems(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	until := s.now().UTC().Add(time.Hour)
	sales, err := s.store.ListSalesBetween(ctx, epoch, until)
	if err != nil {
		return models.DashboardStats{}, err
	}
	advances, err := s.store.ListAdvancesBetween(ctx, epoch, until)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalFarmers:     len(farmers),
		TotalSalesAmount: decimal.Zero,
		TotalAdvances:    decimal.Zero,
		StockSummary: map[models.StockCategory]decimal.Decimal{
			models.CategoryPesticide:  decimal.Zero,
			models.CategoryFertilizer: decimal.Zero,
		},
	}
	for _, sale := range sales {
		stats.TotalSalesAmount = stats.TotalSalesAmount.Add(sale.TotalAmount)
	}
	for _, advance := range advances {
		stats.TotalAdvances = stats.TotalAdvances.Add(advance.Amount)
	}
	for _, item := range items {
		stats.StockSummary[item.Category] = stats.StockSummary[item.Category].Add(item.Quantity)
	}
	return stats, nil
}

// DailyReport aggregates the counter activity for the calendar day containing t (UTC).
func (s *Service) DailyReport(ctx context.Context, t time.Time) (models.DailyReport, error) {
	day := t.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	sales, err := s.store.ListSalesBetween(ctx, start, end)
	if err != nil {
		return models.DailyReport{}, err
	}
	advances, err := s.store.ListAdvancesBetween(ctx, start, end)
	if err != nil {
		return models.DailyReport{}, err
	}
	settlements, err := s.store.ListSettlementsBetween(ctx, start, end)
	if err != nil {
		return models.DailyReport{}, err
	}

	report := models.DailyReport{
		Date:             start,
		SalesCount:       len(sales),
		SalesAmount:      decimal.Zero,
		AdvancesCount:    len(advances),
		AdvancesAmount:   decimal.Zero,
		SettlementsCount: len(settlements),
		NetPaidOut:       decimal.Zero,
		GeneratedAt:      s.now().UTC(),
	}
	for _, sale := range sales {
		report.SalesAmount = report.SalesAmount.Add(sale.TotalAmount)
	}
	for _, advance := range advances {
		report.AdvancesAmount = report.AdvancesAmount.Add(advance.Amount)
	}
	for _, settlement := range settlements {
		report.NetPaidOut = report.NetPaidOut.Add(settlement.NetPayable)
	}
	return report, nil
}

// FormatDailyReport renders the day-book report as a short message for SMS.
func (s *Service) FormatDailyReport(report models.DailyReport) string {
	return fmt.Sprintf(
		"Day-book %s: %d sales for %s, %d advances for %s, %d settlements paying out %s.",
		report.Date.Format(dateLayout),
		report.SalesCount, report.SalesAmount.StringFixed(2),
		report.AdvancesCount, report.AdvancesAmount.StringFixed(2),
		report.SettlementsCount, report.NetPaidOut.StringFixed(2))
}
