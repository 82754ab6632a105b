package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func TestVoucherPrefix(t *testing.T) {
	at := time.Date(2025, 8, 10, 9, 0, 0, 0, timezone.Clinic())
	assert.Equal(t, "NK01-2508", VoucherPrefix(" nk01 ", at))

	// 31 Jul 20:00 UTC is already 1 Aug in Vietnam.
	utc := time.Date(2025, 7, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "NK01-2508", VoucherPrefix("NK01", utc))
}

func TestNextVoucherNumber(t *testing.T) {
	prefix := "NK01-2508"

	assert.Equal(t, "NK01-2508-0001", NextVoucherNumber(prefix, nil))
	assert.Equal(t, "NK01-2508-0004", NextVoucherNumber(prefix, []string{
		"NK01-2508-0001", "NK01-2508-0003", "NK01-2508-0002",
	}))
	assert.Equal(t, "NK01-2508-10000", NextVoucherNumber(prefix, []string{"NK01-2508-9999"}))
	assert.Equal(t, "NK01-2508-0002", NextVoucherNumber(prefix, []string{
		"NK01-2508-0001", "NK01-2508-abc", "NK01-2507-0042",
	}))
}

func TestParseVoucherSequence(t *testing.T) {
	seq, ok := ParseVoucherSequence("NK01-2508", "NK01-2508-0042")
	require.True(t, ok)
	assert.Equal(t, 42, seq)

	_, ok = ParseVoucherSequence("NK01-2508", "NK01-2508-")
	assert.False(t, ok)
	_, ok = ParseVoucherSequence("NK01-2508", "NK02-2508-0001")
	assert.False(t, ok)
}

func services() map[uint]*models.ConsultedService {
	return map[uint]*models.ConsultedService{
		1: {ID: 1, CustomerID: 7, ConsultedServiceName: "Trám răng", FinalPrice: d(200000), AmountPaid: d(0)},
		2: {ID: 2, CustomerID: 7, ConsultedServiceName: "Cạo vôi", FinalPrice: d(300000), AmountPaid: d(250000)},
		3: {ID: 3, CustomerID: 8, ConsultedServiceName: "Nhổ răng", FinalPrice: d(500000)},
	}
}

func TestValidateDetails(t *testing.T) {
	ok := []DetailInput{
		{ConsultedServiceID: 1, Amount: d(150000), PaymentMethod: "Tiền mặt"},
		{ConsultedServiceID: 1, Amount: d(50000), PaymentMethod: "Chuyển khoản"},
		{ConsultedServiceID: 2, Amount: d(50000), PaymentMethod: "Quẹt thẻ"},
	}
	require.NoError(t, ValidateDetails(7, ok, services()))
	assert.True(t, Total(ok).Equal(d(250000)))
}

func TestValidateDetails_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		lines []DetailInput
		code  string
	}{
		{"empty", nil, "empty_voucher"},
		{"zero amount", []DetailInput{{ConsultedServiceID: 1, Amount: decimal.Zero, PaymentMethod: "Tiền mặt"}}, "invalid_amount"},
		{"no method", []DetailInput{{ConsultedServiceID: 1, Amount: d(1000), PaymentMethod: "  "}}, "payment_method_required"},
		{"unknown service", []DetailInput{{ConsultedServiceID: 9, Amount: d(1000), PaymentMethod: "Tiền mặt"}}, "consulted_service_not_found"},
		{"other customer", []DetailInput{{ConsultedServiceID: 3, Amount: d(1000), PaymentMethod: "Tiền mặt"}}, "service_customer_mismatch"},
		{"over outstanding", []DetailInput{{ConsultedServiceID: 2, Amount: d(50001), PaymentMethod: "Tiền mặt"}}, "overpayment"},
		{"sub-unit amount", []DetailInput{{ConsultedServiceID: 1, Amount: decimal.RequireFromString("0.004"), PaymentMethod: "Tiền mặt"}}, "invalid_amount"},
		{"amount finer than storage", []DetailInput{
			{ConsultedServiceID: 1, Amount: decimal.RequireFromString("50.005"), PaymentMethod: "Tiền mặt"},
			{ConsultedServiceID: 1, Amount: decimal.RequireFromString("50.005"), PaymentMethod: "Tiền mặt"},
		}, "invalid_amount"},
		{"split over outstanding", []DetailInput{
			{ConsultedServiceID: 1, Amount: d(150000), PaymentMethod: "Tiền mặt"},
			{ConsultedServiceID: 1, Amount: d(60000), PaymentMethod: "Tiền mặt"},
		}, "overpayment"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDetails(7, tc.lines, services())
			assert.Equal(t, tc.code, code(t, err))
		})
	}
}

func TestAmountsByService(t *testing.T) {
	sums := AmountsByService([]models.PaymentVoucherDetail{
		{ConsultedServiceID: 1, Amount: d(100)},
		{ConsultedServiceID: 2, Amount: d(50)},
		{ConsultedServiceID: 1, Amount: d(25)},
	})

	assert.True(t, sums[1].Equal(d(125)))
	assert.True(t, sums[2].Equal(d(50)))
}

func TestUnionIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 5, 9}, UnionIDs([]uint{9, 2}, []uint{5, 2, 1}))
	assert.Equal(t, []uint{}, UnionIDs())
}

func TestBuildDetails(t *testing.T) {
	rows := BuildDetails(42, []DetailInput{{ConsultedServiceID: 1, Amount: d(10), PaymentMethod: " Tiền mặt "}})
	require.Len(t, rows, 1)
	assert.Equal(t, uint(42), rows[0].PaymentVoucherID)
	assert.Equal(t, "Tiền mặt", rows[0].PaymentMethod)
}
