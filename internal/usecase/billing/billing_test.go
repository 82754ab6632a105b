package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var (
	cashier = access.Actor{ID: 5, ClinicID: 1, Role: models.RoleReceptionist}
	admin   = access.Actor{ID: 1, ClinicID: 1, Role: models.RoleAdmin}

	catalog = fakeCatalog{
		1: {ID: 1, Name: "Trám răng thẩm mỹ", Unit: "Răng", Price: dec(120000), Active: true},
		2: {ID: 2, Name: "Cạo vôi răng", Unit: "Lần", Price: dec(300000), Active: true},
		3: {ID: 3, Name: "Tẩy trắng cũ", Unit: "Lần", Price: dec(900000), Active: false},
	}
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func vn(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, timezone.Clinic())
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func businessCode(t *testing.T, err error) string {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	return be.Code
}

// checkedIn seeds the visit of 10/08/2025 09:00 that customer 7 checked in to.
func checkedIn(repo *fakeRepo) {
	at := vn(2025, 8, 10, 9, 0)
	in := vn(2025, 8, 10, 8, 55)
	repo.appointments = append(repo.appointments, models.Appointment{
		ID: 50, ClinicID: 1, CustomerID: 7, AppointmentDateTime: at,
		Status: "Đã đến", CheckInTime: &in,
	})
}

func consult(t *testing.T, repo *fakeRepo, dentalServiceID uint, pref *decimal.Decimal, qty int) *models.ConsultedService {
	t.Helper()
	uc := NewCreateConsultedService(repo, catalog, nil)
	uc.now = clock(vn(2025, 8, 10, 9, 30))

	s, err := uc.Execute(context.Background(), CreateConsultedServiceInput{
		Actor:             cashier,
		CustomerID:        7,
		DentalServiceID:   dentalServiceID,
		PreferentialPrice: pref,
		Quantity:          qty,
	})
	require.NoError(t, err)
	return s
}

func newVoucherUC(repo *fakeRepo) *CreatePaymentVoucher {
	uc := NewCreatePaymentVoucher(repo, nil, 5)
	uc.now = clock(vn(2025, 8, 10, 10, 0))
	return uc
}

func assertPaidMatchesDetails(t *testing.T, repo *fakeRepo) {
	t.Helper()
	for id, s := range repo.services {
		assert.True(t,
			s.AmountPaid.Equal(repo.paidFromDetails(id)),
			"service %d: amountPaid %s != details %s", id, s.AmountPaid, repo.paidFromDetails(id),
		)
	}
}

// ---------------------------------------------------------------------------
// Consulted services
// ---------------------------------------------------------------------------

func TestVisitScenario(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)

	s := consult(t, repo, 1, decPtr(100000), 2)
	assert.Equal(t, "Trám răng thẩm mỹ", s.ConsultedServiceName)
	assert.Equal(t, uint(50), s.AppointmentID)
	assert.True(t, s.FinalPrice.Equal(dec(200000)))
	assert.True(t, s.Debt.Equal(dec(200000)))
	assert.True(t, s.AmountPaid.IsZero())
	assert.Equal(t, models.ServiceStatusUnconfirmed, s.ServiceStatus)

	v, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor:      cashier,
		CustomerID: 7,
		Details: []domain.DetailInput{
			{ConsultedServiceID: s.ID, Amount: dec(150000), PaymentMethod: "Tiền mặt"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "NK01-2508-0001", v.VoucherNumber)
	assert.True(t, v.TotalAmount.Equal(dec(150000)))

	got, err := NewGetConsultedService(repo).Execute(context.Background(), 1, s.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(dec(150000)))
	assert.True(t, got.Debt.Equal(dec(200000)))
	assert.True(t, got.Outstanding.Equal(dec(50000)))
}

func TestCreateConsultedService_NeedsCheckin(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	uc := NewCreateConsultedService(repo, catalog, nil)
	uc.now = clock(vn(2025, 8, 10, 9, 30))

	_, err := uc.Execute(context.Background(), CreateConsultedServiceInput{
		Actor: cashier, CustomerID: 7, DentalServiceID: 1,
	})
	require.Error(t, err)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 400, be.HTTPStatus())
	assert.Equal(t, true, be.Extra["needsCheckin"])
}

func TestCreateConsultedService_YesterdayCheckInDoesNotCount(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 11, 10, 0))
	checkedIn(repo)

	uc := NewCreateConsultedService(repo, catalog, nil)
	uc.now = clock(vn(2025, 8, 11, 9, 0))

	_, err := uc.Execute(context.Background(), CreateConsultedServiceInput{
		Actor: cashier, CustomerID: 7, DentalServiceID: 1,
	})
	assert.Equal(t, "needs_checkin", businessCode(t, err))
}

func TestCreateConsultedService_CatalogRules(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)

	uc := NewCreateConsultedService(repo, catalog, nil)
	uc.now = clock(vn(2025, 8, 10, 9, 30))

	_, err := uc.Execute(context.Background(), CreateConsultedServiceInput{Actor: cashier, CustomerID: 7, DentalServiceID: 3})
	assert.Equal(t, "dental_service_inactive", businessCode(t, err))

	_, err = uc.Execute(context.Background(), CreateConsultedServiceInput{Actor: cashier, CustomerID: 7, DentalServiceID: 9})
	assert.Equal(t, "dental_service_not_found", businessCode(t, err))

	_, err = uc.Execute(context.Background(), CreateConsultedServiceInput{
		Actor: cashier, CustomerID: 7, DentalServiceID: 1, PreferentialPrice: decPtr(130000),
	})
	assert.Equal(t, "invalid_preferential_price", businessCode(t, err))

	s, err := uc.Execute(context.Background(), CreateConsultedServiceInput{Actor: cashier, CustomerID: 7, DentalServiceID: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Quantity)
	assert.True(t, s.PreferentialPrice.Equal(dec(300000)))
}

func TestUpdateConsultedService(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 1, decPtr(100000), 2)

	_, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(150000), PaymentMethod: "Tiền mặt"}},
	})
	require.NoError(t, err)

	update := NewUpdateConsultedService(repo, nil)

	one := 1
	_, err = update.Execute(context.Background(), UpdateConsultedServiceInput{Actor: cashier, ServiceID: s.ID, Quantity: &one})
	assert.Equal(t, "final_price_below_paid", businessCode(t, err))

	three := 3
	out, err := update.Execute(context.Background(), UpdateConsultedServiceInput{Actor: cashier, ServiceID: s.ID, Quantity: &three})
	require.NoError(t, err)
	assert.True(t, out.FinalPrice.Equal(dec(300000)))
	assert.True(t, repo.services[s.ID].AmountPaid.Equal(dec(150000)))

	_, err = NewConfirmConsultedService(repo, nil).Execute(context.Background(), cashier, s.ID)
	require.NoError(t, err)

	_, err = update.Execute(context.Background(), UpdateConsultedServiceInput{Actor: cashier, ServiceID: s.ID, Quantity: &three})
	assert.Equal(t, "service_confirmed", businessCode(t, err))

	_, err = update.Execute(context.Background(), UpdateConsultedServiceInput{Actor: admin, ServiceID: s.ID, Quantity: &three})
	assert.NoError(t, err)
}

func TestConfirmConsultedService(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)

	uc := NewConfirmConsultedService(repo, nil)
	uc.now = clock(vn(2025, 8, 10, 11, 0))

	out, err := uc.Execute(context.Background(), cashier, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusConfirmed, out.ServiceStatus)
	require.NotNil(t, out.ServiceConfirmDate)

	_, err = uc.Execute(context.Background(), cashier, s.ID)
	assert.Equal(t, "already_confirmed", businessCode(t, err))
}

func TestDeleteConsultedService(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	paid := consult(t, repo, 1, nil, 1)
	free := consult(t, repo, 2, nil, 1)

	_, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: paid.ID, Amount: dec(1000), PaymentMethod: "CK"}},
	})
	require.NoError(t, err)

	uc := NewDeleteConsultedService(repo, nil)

	err = uc.Execute(context.Background(), cashier, paid.ID)
	assert.Equal(t, "service_has_payments", businessCode(t, err))

	require.NoError(t, uc.Execute(context.Background(), cashier, free.ID))
	assert.NotContains(t, repo.services, free.ID)

	err = uc.Execute(context.Background(), cashier, free.ID)
	assert.Equal(t, "consulted_service_not_found", businessCode(t, err))
}

// ---------------------------------------------------------------------------
// Vouchers
// ---------------------------------------------------------------------------

func TestCreateVoucher_RejectsWholeVoucher(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	a := consult(t, repo, 1, nil, 1) // 120000
	b := consult(t, repo, 2, nil, 1) // 300000

	_, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{
			{ConsultedServiceID: a.ID, Amount: dec(120000), PaymentMethod: "Tiền mặt"},
			{ConsultedServiceID: b.ID, Amount: dec(300001), PaymentMethod: "Tiền mặt"},
		},
	})
	assert.Equal(t, "overpayment", businessCode(t, err))

	assert.True(t, repo.services[a.ID].AmountPaid.IsZero())
	assert.Empty(t, repo.vouchers)
	assertPaidMatchesDetails(t, repo)
}

func TestCreateVoucher_OtherCustomersService(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 1, nil, 1)

	_, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 8,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(1000), PaymentMethod: "Tiền mặt"}},
	})
	assert.Equal(t, "service_customer_mismatch", businessCode(t, err))
}

func TestCreateVoucher_SequentialNumbers(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)

	uc := newVoucherUC(repo)
	for i, want := range []string{"NK01-2508-0001", "NK01-2508-0002", "NK01-2508-0003"} {
		v, err := uc.Execute(context.Background(), CreatePaymentVoucherInput{
			Actor: cashier, CustomerID: 7,
			Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(10000), PaymentMethod: "Tiền mặt"}},
		})
		require.NoError(t, err, "voucher %d", i)
		assert.Equal(t, want, v.VoucherNumber)
	}

	uc.now = clock(vn(2025, 9, 1, 8, 0))
	v, err := uc.Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(10000), PaymentMethod: "Tiền mặt"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "NK01-2509-0001", v.VoucherNumber)
}

func TestCreateVoucher_RetriesNumberCollisions(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)
	repo.collisions = 2

	v, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(50000), PaymentMethod: "Tiền mặt"}},
	})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.True(t, repo.services[s.ID].AmountPaid.Equal(dec(50000)))
	assert.Equal(t, 0, repo.collisions)
}

func TestCreateVoucher_FailsClosedAfterRetries(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)
	repo.collisions = 10

	_, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(50000), PaymentMethod: "Tiền mặt"}},
	})
	assert.Equal(t, ErrVoucherNumberExhausted.Code, businessCode(t, err))
	assert.Equal(t, 500, ErrVoucherNumberExhausted.HTTPStatus())
	assert.Equal(t, 5, 10-repo.collisions, "one insert per attempt")
	assert.True(t, repo.services[s.ID].AmountPaid.IsZero())
	assert.Empty(t, repo.vouchers)
}

func TestVoucherRoundTrip(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	a := consult(t, repo, 1, decPtr(100000), 2) // 200000
	b := consult(t, repo, 2, nil, 1)            // 300000

	create := newVoucherUC(repo)
	update := NewUpdatePaymentVoucher(repo, nil)
	update.now = clock(vn(2025, 8, 10, 15, 0))
	remove := NewDeletePaymentVoucher(repo, nil)
	remove.now = clock(vn(2025, 8, 10, 16, 0))

	v1, err := create.Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{
			{ConsultedServiceID: a.ID, Amount: dec(150000), PaymentMethod: "Tiền mặt"},
			{ConsultedServiceID: b.ID, Amount: dec(100000), PaymentMethod: "Chuyển khoản"},
		},
	})
	require.NoError(t, err)
	assertPaidMatchesDetails(t, repo)

	v2, err := create.Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: a.ID, Amount: dec(50000), PaymentMethod: "Quẹt thẻ"}},
	})
	require.NoError(t, err)
	assertPaidMatchesDetails(t, repo)
	assert.True(t, repo.services[a.ID].AmountPaid.Equal(dec(200000)))

	// Moving v1's money: the old 150000 on a is released before the new
	// lines are checked, so 200000 on b fits.
	out, err := update.Execute(context.Background(), UpdatePaymentVoucherInput{
		Actor: cashier, VoucherID: v1.ID,
		Details: []domain.DetailInput{
			{ConsultedServiceID: a.ID, Amount: dec(100000), PaymentMethod: "Tiền mặt"},
			{ConsultedServiceID: b.ID, Amount: dec(200000), PaymentMethod: "Tiền mặt"},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(dec(300000)))
	assertPaidMatchesDetails(t, repo)
	assert.True(t, repo.services[a.ID].AmountPaid.Equal(dec(150000)))
	assert.True(t, repo.services[b.ID].AmountPaid.Equal(dec(200000)))

	// A failing update leaves everything as it was.
	_, err = update.Execute(context.Background(), UpdatePaymentVoucherInput{
		Actor: cashier, VoucherID: v1.ID,
		Details: []domain.DetailInput{{ConsultedServiceID: b.ID, Amount: dec(300001), PaymentMethod: "Tiền mặt"}},
	})
	assert.Equal(t, "overpayment", businessCode(t, err))
	assertPaidMatchesDetails(t, repo)
	assert.True(t, repo.services[b.ID].AmountPaid.Equal(dec(200000)))

	require.NoError(t, remove.Execute(context.Background(), cashier, v2.ID))
	assertPaidMatchesDetails(t, repo)
	assert.True(t, repo.services[a.ID].AmountPaid.Equal(dec(100000)))

	require.NoError(t, remove.Execute(context.Background(), cashier, v1.ID))
	assertPaidMatchesDetails(t, repo)
	assert.True(t, repo.services[a.ID].AmountPaid.IsZero())
	assert.True(t, repo.services[b.ID].AmountPaid.IsZero())
	assert.Empty(t, repo.details)
}

func TestVoucherModifyWindow(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)

	v, err := newVoucherUC(repo).Execute(context.Background(), CreatePaymentVoucherInput{
		Actor: cashier, CustomerID: 7,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(50000), PaymentMethod: "Tiền mặt"}},
	})
	require.NoError(t, err)

	nextDay := vn(2025, 8, 11, 8, 0)

	update := NewUpdatePaymentVoucher(repo, nil)
	update.now = clock(nextDay)
	_, err = update.Execute(context.Background(), UpdatePaymentVoucherInput{
		Actor: cashier, VoucherID: v.ID,
		Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(10000), PaymentMethod: "Tiền mặt"}},
	})
	require.Error(t, err)
	be, _ := httperr.AsBusiness(err)
	assert.Equal(t, 403, be.HTTPStatus())

	remove := NewDeletePaymentVoucher(repo, nil)
	remove.now = clock(nextDay)

	err = remove.Execute(context.Background(), cashier, v.ID)
	assert.Equal(t, "modify_window_closed", businessCode(t, err))
	assert.True(t, repo.services[s.ID].AmountPaid.Equal(dec(50000)))

	require.NoError(t, remove.Execute(context.Background(), admin, v.ID))
	assert.True(t, repo.services[s.ID].AmountPaid.IsZero())
}

func TestListPaymentVouchers(t *testing.T) {
	repo := newFakeRepo(vn(2025, 8, 10, 10, 0))
	checkedIn(repo)
	s := consult(t, repo, 2, nil, 1)

	uc := newVoucherUC(repo)
	for i := 0; i < 3; i++ {
		_, err := uc.Execute(context.Background(), CreatePaymentVoucherInput{
			Actor: cashier, CustomerID: 7,
			Details: []domain.DetailInput{{ConsultedServiceID: s.ID, Amount: dec(1000), PaymentMethod: "Tiền mặt"}},
		})
		require.NoError(t, err)
	}

	rows, total, err := NewListPaymentVouchers(repo).Execute(context.Background(), domain.VoucherFilter{
		ClinicID: 1, CustomerID: 7, Offset: 0, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 2)

	_, err = NewGetPaymentVoucher(repo).Execute(context.Background(), 1, 9999)
	assert.Equal(t, "voucher_not_found", businessCode(t, err))
}
