package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func code(t *testing.T, err error) string {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	return be.Code
}

func TestPriceLine(t *testing.T) {
	line, err := PriceLine(d(120000), dp(100000), 2)
	require.NoError(t, err)
	assert.True(t, line.FinalPrice.Equal(d(200000)))
	assert.True(t, line.PreferentialPrice.Equal(d(100000)))

	line, err = PriceLine(d(120000), nil, 1)
	require.NoError(t, err)
	assert.True(t, line.PreferentialPrice.Equal(d(120000)), "defaults to the catalog price")

	line, err = PriceLine(d(120000), dp(0), 3)
	require.NoError(t, err)
	assert.True(t, line.FinalPrice.IsZero())
}

func TestPriceLine_Rejections(t *testing.T) {
	_, err := PriceLine(d(120000), dp(130000), 1)
	assert.Equal(t, "invalid_preferential_price", code(t, err))

	_, err = PriceLine(d(120000), dp(-1), 1)
	assert.Equal(t, "invalid_preferential_price", code(t, err))

	_, err = PriceLine(d(120000), nil, 0)
	assert.Equal(t, "invalid_quantity", code(t, err))

	fine := decimal.RequireFromString("0.005")
	_, err = PriceLine(d(1), &fine, 3)
	assert.Equal(t, "invalid_preferential_price", code(t, err))

	_, err = PriceLine(decimal.RequireFromString("10.001"), nil, 1)
	assert.Equal(t, "invalid_price", code(t, err))
}

func TestIsMoney(t *testing.T) {
	assert.True(t, IsMoney(d(150000)))
	assert.True(t, IsMoney(decimal.RequireFromString("50.01")))
	assert.False(t, IsMoney(decimal.RequireFromString("50.005")))
	assert.False(t, IsMoney(decimal.RequireFromString("0.004")))
}

func TestLineApply(t *testing.T) {
	line, err := PriceLine(d(120000), dp(100000), 2)
	require.NoError(t, err)

	s := &models.ConsultedService{AmountPaid: d(50000)}
	line.Apply(s)

	assert.True(t, s.Debt.Equal(d(200000)))
	assert.True(t, s.Outstanding.Equal(d(150000)))
}

func TestReprice(t *testing.T) {
	s := &models.ConsultedService{
		Price:             d(120000),
		PreferentialPrice: d(100000),
		Quantity:          2,
		FinalPrice:        d(200000),
		Debt:              d(200000),
		AmountPaid:        d(150000),
	}

	err := Reprice(s, nil, intPtr(1))
	assert.Equal(t, "final_price_below_paid", code(t, err))
	assert.Equal(t, 2, s.Quantity, "rejected reprice leaves the service untouched")

	fine := decimal.RequireFromString("90000.005")
	err = Reprice(s, &fine, nil)
	assert.Equal(t, "invalid_preferential_price", code(t, err))
	assert.True(t, s.PreferentialPrice.Equal(d(100000)))

	require.NoError(t, Reprice(s, dp(90000), intPtr(2)))
	assert.True(t, s.FinalPrice.Equal(d(180000)))
	assert.True(t, s.Debt.Equal(d(180000)))
	assert.True(t, s.Outstanding.Equal(d(30000)))
}

func intPtr(v int) *int { return &v }
