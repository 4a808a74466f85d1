package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/server/handlers"
	gradingsvc "github.com/mamadbah2/coop/internal/service/grading"
	ledgersvc "github.com/mamadbah2/coop/internal/service/ledger"
	registrysvc "github.com/mamadbah2/coop/internal/service/registry"
	reportingsvc "github.com/mamadbah2/coop/internal/service/reporting"
	settlementsvc "github.com/mamadbah2/coop/internal/service/settlement"
)

// memStore is an in-memory stand-in for the MongoDB store, good enough to
// drive the whole workflow through the HTTP surface.
type memStore struct {
	farmers     map[string]models.Farmer
	stock       map[string]models.StockItem
	sales       map[string]models.Sale
	advances    map[string]models.Advance
	samples     map[string]models.Sample
	settlements map[string]models.Settlement
}

func newMemStore() *memStore {
	return &memStore{
		farmers:     map[string]models.Farmer{},
		stock:       map[string]models.StockItem{},
		sales:       map[string]models.Sale{},
		advances:    map[string]models.Advance{},
		samples:     map[string]models.Sample{},
		settlements: map[string]models.Settlement{},
	}
}

func (m *memStore) CreateFarmer(_ context.Context, farmer models.Farmer) error {
	m.farmers[farmer.ID] = farmer
	return nil
}

func (m *memStore) GetFarmer(_ context.Context, id string) (models.Farmer, error) {
	farmer, ok := m.farmers[id]
	if !ok {
		return models.Farmer{}, apperr.NotFound("farmer", id)
	}
	return farmer, nil
}

func (m *memStore) ListFarmers(context.Context) ([]models.Farmer, error) {
	var out []models.Farmer
	for _, farmer := range m.farmers {
		out = append(out, farmer)
	}
	return out, nil
}

func (m *memStore) UpdateFarmerBank(_ context.Context, id string, bank models.BankDetails) error {
	farmer, ok := m.farmers[id]
	if !ok {
		return apperr.NotFound("farmer", id)
	}
	farmer.Bank = bank
	m.farmers[id] = farmer
	return nil
}

func (m *memStore) CreateStockItem(_ context.Context, item models.StockItem) error {
	m.stock[item.ID] = item
	return nil
}

func (m *memStore) GetStockItem(_ context.Context, id string) (models.StockItem, error) {
	item, ok := m.stock[id]
	if !ok {
		return models.StockItem{}, apperr.NotFound("stock item", id)
	}
	return item, nil
}

func (m *memStore) ListStockItems(context.Context) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range m.stock {
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) CreateSale(_ context.Context, sale models.Sale, itemID string) error {
	item, ok := m.stock[itemID]
	if !ok {
		return apperr.NotFound("stock item", itemID)
	}
	if item.Quantity.LessThan(sale.Quantity) {
		return apperr.Conflict("insufficient stock")
	}
	item.Quantity = item.Quantity.Sub(sale.Quantity)
	m.stock[itemID] = item
	m.sales[sale.ID] = sale
	return nil
}

func (m *memStore) CreateAdvance(_ context.Context, advance models.Advance) error {
	m.advances[advance.ID] = advance
	return nil
}

func (m *memStore) ListSalesByFarmer(_ context.Context, farmerID string) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range m.sales {
		if sale.FarmerID == farmerID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m *memStore) ListAdvancesByFarmer(_ context.Context, farmerID string) ([]models.Advance, error) {
	var out []models.Advance
	for _, advance := range m.advances {
		if advance.FarmerID == farmerID {
			out = append(out, advance)
		}
	}
	return out, nil
}

func (m *memStore) ListOutstandingSales(_ context.Context, farmerID string) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range m.sales {
		if sale.FarmerID == farmerID && !sale.Absorbed {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m *memStore) ListOutstandingAdvances(_ context.Context, farmerID string) ([]models.Advance, error) {
	var out []models.Advance
	for _, advance := range m.advances {
		if advance.FarmerID == farmerID && !advance.Absorbed {
			out = append(out, advance)
		}
	}
	return out, nil
}

func (m *memStore) ListSalesBetween(context.Context, time.Time, time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range m.sales {
		out = append(out, sale)
	}
	return out, nil
}

func (m *memStore) ListAdvancesBetween(context.Context, time.Time, time.Time) ([]models.Advance, error) {
	var out []models.Advance
	for _, advance := range m.advances {
		out = append(out, advance)
	}
	return out, nil
}

func (m *memStore) CreateSample(_ context.Context, sample models.Sample) error {
	m.samples[sample.ID] = sample
	return nil
}

func (m *memStore) GetSample(_ context.Context, id string) (models.Sample, error) {
	sample, ok := m.samples[id]
	if !ok {
		return models.Sample{}, apperr.NotFound("sample", id)
	}
	return sample, nil
}

func (m *memStore) UpdateSample(_ context.Context, sample models.Sample) error {
	m.samples[sample.ID] = sample
	return nil
}

func (m *memStore) ListSamplesByFarmer(_ context.Context, farmerID string) ([]models.Sample, error) {
	var out []models.Sample
	for _, sample := range m.samples {
		if sample.FarmerID == farmerID {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (m *memStore) ConfirmSettlement(_ context.Context, settlement models.Settlement, saleIDs, advanceIDs []string) error {
	m.settlements[settlement.ID] = settlement
	for _, id := range saleIDs {
		sale := m.sales[id]
		sale.Absorbed = true
		sale.SettlementID = settlement.ID
		m.sales[id] = sale
	}
	for _, id := range advanceIDs {
		advance := m.advances[id]
		advance.Absorbed = true
		advance.SettlementID = settlement.ID
		m.advances[id] = advance
	}
	return nil
}

func (m *memStore) ListSettlementsByFarmer(_ context.Context, farmerID string) ([]models.Settlement, error) {
	var out []models.Settlement
	for _, settlement := range m.settlements {
		if settlement.FarmerID == farmerID {
			out = append(out, settlement)
		}
	}
	return out, nil
}

func (m *memStore) ListSettlementsBetween(context.Context, time.Time, time.Time) ([]models.Settlement, error) {
	var out []models.Settlement
	for _, settlement := range m.settlements {
		out = append(out, settlement)
	}
	return out, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := newMemStore()
	registry := registrysvc.NewService(store, nil)
	grading := gradingsvc.NewService(store, nil)
	ledger := ledgersvc.NewService(store, nil)
	reporting := reportingsvc.NewService(store, nil)
	settlement := settlementsvc.NewService(store, grading, ledger, nil, nil)

	return New(Handlers{
		Farmers:     handlers.NewFarmerHandler(registry, nil),
		Ledger:      handlers.NewLedgerHandler(ledger, nil),
		Samples:     handlers.NewSampleHandler(grading, nil),
		Settlements: handlers.NewSettlementHandler(settlement, nil),
		Dashboard:   handlers.NewDashboardHandler(reporting, nil),
	}, nil)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Operator-Id", "op-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestOperatorIdentityRequired(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/farmers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health probe stays open.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettlementWorkflow(t *testing.T) {
	r := newTestRouter(t)

	// Enroll a farmer.
	w := do(t, r, http.MethodPost, "/farmers", gin.H{
		"name":         "Ravi Kumar",
		"village":      "Kothapalli",
		"aadhaar":      "123412341234",
		"mobile":       "9000000001",
		"sowing_acre":  "2.5",
		"seed_packets": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var farmer models.Farmer
	decode(t, w, &farmer)

	// Stock a pesticide batch and sell part of it to the farmer.
	w = do(t, r, http.MethodPost, "/stock", gin.H{
		"type": "Pesticide", "name": "Neemol", "size": "500ml", "quantity": "20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.StockItem
	decode(t, w, &item)

	w = do(t, r, http.MethodPost, "/sales", gin.H{
		"farmer_id": farmer.ID, "item_id": item.ID, "quantity": "2", "rate": "250",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Give a cash advance.
	w = do(t, r, http.MethodPost, "/advances", gin.H{
		"farmer_id": farmer.ID, "amount": "200", "notes": "seed money",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Preview before any sample is graded fails the precondition.
	w = do(t, r, http.MethodPost, "/settlements/preview", gin.H{
		"farmer_id": farmer.ID, "total_cultivation_qty": "120", "rate_per_kg": "50",
	})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code, w.Body.String())

	// Submit and approve a crop sample.
	w = do(t, r, http.MethodPost, "/samples", gin.H{
		"farmer_id": farmer.ID, "crop_type": "Chilli", "sample_qty": "120",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sample models.Sample
	decode(t, w, &sample)

	w = do(t, r, http.MethodPut, "/samples/"+sample.ID, gin.H{
		"status": "Approved", "grade": "A", "approved_qty": "100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Preview now nets sales and advances against the approved crop value.
	w = do(t, r, http.MethodPost, "/settlements/preview", gin.H{
		"farmer_id": farmer.ID, "total_cultivation_qty": "120", "rate_per_kg": "50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview models.SettlementPreview
	decode(t, w, &preview)

	assert.True(t, preview.GrossAmount.Equal(decimal.RequireFromString("5000")))
	assert.True(t, preview.TotalSalesDeduction.Equal(decimal.RequireFromString("500")))
	assert.True(t, preview.TotalAdvancesDeduction.Equal(decimal.RequireFromString("200")))
	assert.True(t, preview.NetPayable.Equal(decimal.RequireFromString("4300")))

	// Confirm the preview.
	w = do(t, r, http.MethodPost, "/settlements/confirm", gin.H{
		"farmer_id":                farmer.ID,
		"total_cultivation_qty":    "120",
		"approved_qty":             "100",
		"rate_per_kg":              "50",
		"gross_amount":             "5000",
		"total_sales_deduction":    "500",
		"total_advances_deduction": "200",
		"net_payable_amount":       "4300",
		"payment_mode":             "UPI",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var settled models.Settlement
	decode(t, w, &settled)
	assert.Equal(t, "UPI", settled.PaymentMode)

	// The confirm absorbed everything: a fresh preview deducts nothing.
	w = do(t, r, http.MethodPost, "/settlements/preview", gin.H{
		"farmer_id": farmer.ID, "total_cultivation_qty": "120", "rate_per_kg": "50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &preview)
	assert.True(t, preview.TotalSalesDeduction.IsZero())
	assert.True(t, preview.TotalAdvancesDeduction.IsZero())
	assert.True(t, preview.NetPayable.Equal(decimal.RequireFromString("5000")))

	// History shows the one settlement.
	w = do(t, r, http.MethodGet, "/settlements/farmer/"+farmer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.Settlement
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, settled.ID, history[0].ID)
}

func TestStaleConfirmRejected(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/farmers", gin.H{
		"name": "Sita", "village": "Rampur", "aadhaar": "432143214321", "mobile": "9000000002",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var farmer models.Farmer
	decode(t, w, &farmer)

	w = do(t, r, http.MethodPost, "/samples", gin.H{
		"farmer_id": farmer.ID, "crop_type": "Chilli", "sample_qty": "100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sample models.Sample
	decode(t, w, &sample)

	w = do(t, r, http.MethodPut, "/samples/"+sample.ID, gin.H{
		"status": "Approved", "grade": "B", "approved_qty": "80",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Confirm built on a stale approved quantity is rejected.
	w = do(t, r, http.MethodPost, "/settlements/confirm", gin.H{
		"farmer_id":                farmer.ID,
		"total_cultivation_qty":    "100",
		"approved_qty":             "100",
		"rate_per_kg":              "50",
		"gross_amount":             "5000",
		"total_sales_deduction":    "0",
		"total_advances_deduction": "0",
		"net_payable_amount":       "5000",
		"payment_mode":             "Cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}
