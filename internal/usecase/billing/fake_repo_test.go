package billing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type fakeState struct {
	services map[uint]models.ConsultedService
	vouchers map[uint]models.PaymentVoucher
	details  []models.PaymentVoucherDetail
	nextID   uint
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		services: make(map[uint]models.ConsultedService, len(s.services)),
		vouchers: make(map[uint]models.PaymentVoucher, len(s.vouchers)),
		details:  append([]models.PaymentVoucherDetail(nil), s.details...),
		nextID:   s.nextID,
	}
	for k, v := range s.services {
		out.services[k] = v
	}
	for k, v := range s.vouchers {
		out.vouchers[k] = v
	}
	return out
}

// fakeRepo is an in-memory billing store. Transaction restores the state it
// saw on entry when fn fails.
type fakeRepo struct {
	fakeState

	clinics      map[uint]models.Clinic
	customers    map[uint]models.Customer
	appointments []models.Appointment

	// collisions makes the next n voucher inserts fail on the number index.
	collisions int
	now        time.Time
}

func newFakeRepo(now time.Time) *fakeRepo {
	return &fakeRepo{
		fakeState: fakeState{
			services: map[uint]models.ConsultedService{},
			vouchers: map[uint]models.PaymentVoucher{},
			nextID:   100,
		},
		clinics: map[uint]models.Clinic{1: {ID: 1, Code: "NK01", Name: "Nha khoa Số 1"}},
		customers: map[uint]models.Customer{
			7: {ID: 7, ClinicID: 1, FullName: "Nguyễn Văn An"},
			8: {ID: 8, ClinicID: 1, FullName: "Trần Thị Bình"},
		},
		now: now,
	}
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	saved := r.fakeState.clone()
	if err := fn(r); err != nil {
		r.fakeState = saved
		return err
	}
	return nil
}

func (r *fakeRepo) GetClinic(_ context.Context, id uint) (*models.Clinic, error) {
	c, ok := r.clinics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeRepo) GetCustomer(_ context.Context, clinicID, id uint) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeRepo) FindCheckedInToday(_ context.Context, customerID uint, start, end time.Time) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.CustomerID != customerID || ap.CheckInTime == nil {
			continue
		}
		if !ap.AppointmentDateTime.Before(start) && ap.AppointmentDateTime.Before(end) {
			cp := ap
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateConsultedService(_ context.Context, s *models.ConsultedService) error {
	s.ID = r.id()
	r.services[s.ID] = *s
	return nil
}

func (r *fakeRepo) GetConsultedService(_ context.Context, clinicID, id uint) (*models.ConsultedService, error) {
	s, ok := r.services[id]
	if !ok || s.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	s.RefreshOutstanding()
	return &s, nil
}

func (r *fakeRepo) UpdateConsultedService(_ context.Context, s *models.ConsultedService) error {
	stored := r.services[s.ID]
	// amount_paid is owned by AdjustAmountPaid.
	s.AmountPaid = stored.AmountPaid
	r.services[s.ID] = *s
	return nil
}

func (r *fakeRepo) DeleteConsultedService(_ context.Context, id uint) error {
	delete(r.services, id)
	return nil
}

func (r *fakeRepo) ListConsultedServices(_ context.Context, clinicID, customerID uint) ([]models.ConsultedService, error) {
	var out []models.ConsultedService
	for _, id := range r.serviceIDs() {
		s := r.services[id]
		if s.ClinicID == clinicID && (customerID == 0 || s.CustomerID == customerID) {
			s.RefreshOutstanding()
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) LockConsultedServices(_ context.Context, clinicID uint, ids []uint) ([]models.ConsultedService, error) {
	var out []models.ConsultedService
	for _, id := range ids {
		if s, ok := r.services[id]; ok && s.ClinicID == clinicID {
			s.RefreshOutstanding()
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) AdjustAmountPaid(_ context.Context, id uint, delta decimal.Decimal) error {
	s, ok := r.services[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.AmountPaid = s.AmountPaid.Add(delta)
	r.services[id] = s
	return nil
}

func (r *fakeRepo) VoucherNumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, v := range r.vouchers {
		if strings.HasPrefix(v.VoucherNumber, prefix+"-") {
			out = append(out, v.VoucherNumber)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateVoucher(_ context.Context, v *models.PaymentVoucher) error {
	taken := false
	for _, other := range r.vouchers {
		if other.VoucherNumber == v.VoucherNumber {
			taken = true
		}
	}
	if r.collisions > 0 || taken {
		if r.collisions > 0 {
			r.collisions--
		}
		return &pgconn.PgError{Code: "23505", ConstraintName: domain.VoucherNumberConstraint}
	}

	v.ID = r.id()
	v.CreatedAt = r.now
	for i := range v.Details {
		v.Details[i].ID = r.id()
		v.Details[i].PaymentVoucherID = v.ID
	}
	r.details = append(r.details, v.Details...)

	stored := *v
	stored.Details = nil
	r.vouchers[v.ID] = stored
	return nil
}

func (r *fakeRepo) loadVoucher(clinicID, id uint) (*models.PaymentVoucher, error) {
	v, ok := r.vouchers[id]
	if !ok || v.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	for _, d := range r.details {
		if d.PaymentVoucherID == id {
			v.Details = append(v.Details, d)
		}
	}
	return &v, nil
}

func (r *fakeRepo) GetVoucher(_ context.Context, clinicID, id uint) (*models.PaymentVoucher, error) {
	return r.loadVoucher(clinicID, id)
}

func (r *fakeRepo) LockVoucher(_ context.Context, clinicID, id uint) (*models.PaymentVoucher, error) {
	return r.loadVoucher(clinicID, id)
}

func (r *fakeRepo) UpdateVoucher(_ context.Context, v *models.PaymentVoucher) error {
	stored := *v
	stored.Details = nil
	r.vouchers[v.ID] = stored
	return nil
}

func (r *fakeRepo) DeleteVoucher(_ context.Context, id uint) error {
	delete(r.vouchers, id)
	return nil
}

func (r *fakeRepo) DeleteVoucherDetails(_ context.Context, voucherID uint) error {
	kept := r.details[:0:0]
	for _, d := range r.details {
		if d.PaymentVoucherID != voucherID {
			kept = append(kept, d)
		}
	}
	r.details = kept
	return nil
}

func (r *fakeRepo) CreateVoucherDetails(_ context.Context, details []models.PaymentVoucherDetail) error {
	for i := range details {
		details[i].ID = r.id()
	}
	r.details = append(r.details, details...)
	return nil
}

func (r *fakeRepo) ListVouchers(_ context.Context, f domain.VoucherFilter) ([]models.PaymentVoucher, int64, error) {
	var all []models.PaymentVoucher
	for _, v := range r.vouchers {
		if v.ClinicID == f.ClinicID && (f.CustomerID == 0 || v.CustomerID == f.CustomerID) {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if f.Offset >= len(all) {
		return []models.PaymentVoucher{}, total, nil
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r *fakeRepo) serviceIDs() []uint {
	ids := make([]uint, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// paidFromDetails sums the stored detail rows of one service.
func (r *fakeRepo) paidFromDetails(serviceID uint) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range r.details {
		if d.ConsultedServiceID == serviceID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

// fakeCatalog serves a fixed price list.
type fakeCatalog map[uint]models.DentalService

func (c fakeCatalog) GetDentalService(_ context.Context, id uint) (*models.DentalService, error) {
	s, ok := c[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (c fakeCatalog) ListDentalServices(_ context.Context) ([]models.DentalService, error) {
	out := make([]models.DentalService, 0, len(c))
	for _, s := range c {
		out = append(out, s)
	}
	return out, nil
}

func (c fakeCatalog) SaveDentalService(_ context.Context, s *models.DentalService) error {
	c[s.ID] = *s
	return nil
}
