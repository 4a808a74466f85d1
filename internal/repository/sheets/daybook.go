package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/coop/internal/config"
	"github.com/mamadbah2/coop/internal/domain/models"
)

const (
	dateLayout       = "2006-01-02"
	daybookRange     = "Daybook!A:G"
	settlementsRange = "Settlements!A:H"
)

// Exporter pushes day-book rows to the cooperative's shared spreadsheet.
type Exporter interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
	AppendSettlement(ctx context.Context, farmer models.Farmer, settlement models.Settlement) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailyReport appends one day-book summary row.
func (e *GoogleSheetExporter) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	values := []interface{}{
		report.Date.Format(dateLayout),
		report.SalesCount,
		report.SalesAmount.StringFixed(2),
		report.AdvancesCount,
		report.AdvancesAmount.StringFixed(2),
		report.SettlementsCount,
		report.NetPaidOut.StringFixed(2),
	}
	return e.appendRow(ctx, daybookRange, values)
}

// AppendSettlement appends one confirmed settlement row.
func (e *GoogleSheetExporter) AppendSettlement(ctx context.Context, farmer models.Farmer, settlement models.Settlement) error {
	values := []interface{}{
		settlement.SettledAt.Format(dateLayout),
		farmer.Name,
		farmer.Village,
		settlement.ApprovedQty.String(),
		settlement.RatePerKg.String(),
		settlement.GrossAmount.StringFixed(2),
		settlement.NetPayable.StringFixed(2),
		settlement.PaymentMode,
	}
	return e.appendRow(ctx, settlementsRange, values)
}

func (e *GoogleSheetExporter) appendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
