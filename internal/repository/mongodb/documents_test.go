package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocToDomainRejectsCorruptDecimal(t *testing.T) {
	_, err := saleDoc{ID: "s1", Quantity: "2", Rate: "250", TotalAmount: "not-a-number"}.toDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_amount")

	_, err = settlementDoc{ID: "stl1", GrossAmount: "5,000"}.toDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gross_amount")

	_, err = farmerDoc{ID: "f1", SowingAcre: "two acres"}.toDomain()
	require.Error(t, err)

	_, err = stockItemDoc{ID: "i1", Quantity: "NaN-ish"}.toDomain()
	require.Error(t, err)

	_, err = advanceDoc{ID: "a1", Amount: "x"}.toDomain()
	require.Error(t, err)

	_, err = sampleDoc{ID: "smp1", SampleQty: "100", ApprovedQty: "eighty"}.toDomain()
	require.Error(t, err)
}

func TestDocToDomainDecimals(t *testing.T) {
	sale, err := saleDoc{ID: "s1", Quantity: "2", Rate: "250", TotalAmount: "500"}.toDomain()
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("500")))

	// Absent values read as zero; only present-but-unparsable is corruption.
	farmer, err := farmerDoc{ID: "f1"}.toDomain()
	require.NoError(t, err)
	assert.True(t, farmer.SowingAcre.IsZero())
}
