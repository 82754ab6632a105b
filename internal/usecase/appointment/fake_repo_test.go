package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// fakeRepo keeps appointments in memory and mimics the partial unique index on
// (customer_id, appointment_day) for non-cancelled rows.
type fakeRepo struct {
	customers    map[uint]*models.Customer
	employees    map[uint]*models.Employee
	appointments map[uint]*models.Appointment
	services     map[uint]int64
	nextID       uint

	// hideActive makes the next FindActiveForDay miss, as a concurrent
	// request would.
	hideActive bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: map[uint]*models.Customer{
			1: {ID: 1, ClinicID: 1, FullName: "Nguyễn Văn An", Phone: "0901000001"},
			2: {ID: 2, ClinicID: 1, FullName: "Trần Thị Bình", Phone: "0901000002"},
		},
		employees: map[uint]*models.Employee{
			10: {ID: 10, ClinicID: 1, FullName: "BS. Lê Minh", Role: models.RoleDoctor, Active: true},
			11: {ID: 11, ClinicID: 1, FullName: "BS. Phạm Hòa", Role: models.RoleDoctor, Active: true},
			12: {ID: 12, ClinicID: 1, FullName: "BS. Nghỉ", Role: models.RoleDoctor, Active: false},
		},
		appointments: map[uint]*models.Appointment{},
		services:     map[uint]int64{},
		nextID:       100,
	}
}

func (r *fakeRepo) seed(ap models.Appointment) *models.Appointment {
	if ap.ID == 0 {
		r.nextID++
		ap.ID = r.nextID
	}
	if ap.ClinicID == 0 {
		ap.ClinicID = 1
	}
	if ap.Duration == 0 {
		ap.Duration = domain.DefaultDuration
	}
	ap.AppointmentDay = timezone.DayKey(ap.AppointmentDateTime)
	stored := ap
	r.appointments[ap.ID] = &stored
	return &stored
}

func (r *fakeRepo) GetCustomer(_ context.Context, clinicID, id uint) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeRepo) GetEmployee(_ context.Context, clinicID, id uint) (*models.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeRepo) FindActiveForDay(
	_ context.Context,
	customerID uint,
	start, end time.Time,
	excludeID uint,
) (*models.Appointment, error) {
	if r.hideActive {
		r.hideActive = false
		return nil, nil
	}
	for _, ap := range r.sorted() {
		if ap.CustomerID != customerID || ap.ID == excludeID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if !ap.AppointmentDateTime.Before(start) && ap.AppointmentDateTime.Before(end) {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) violatesDayIndex(ap *models.Appointment) error {
	if ap.Status == string(domain.StatusCancelled) {
		return nil
	}
	day := timezone.DayKey(ap.AppointmentDateTime)
	for _, other := range r.appointments {
		if other.ID == ap.ID || other.CustomerID != ap.CustomerID {
			continue
		}
		if other.Status != string(domain.StatusCancelled) && other.AppointmentDay == day {
			return &pgconn.PgError{Code: "23505", ConstraintName: domain.ActiveDayConstraint}
		}
	}
	return nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if err := r.violatesDayIndex(ap); err != nil {
		return err
	}
	r.nextID++
	ap.ID = r.nextID
	ap.AppointmentDay = timezone.DayKey(ap.AppointmentDateTime)
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, clinicID, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok || ap.ClinicID != clinicID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := r.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := r.violatesDayIndex(ap); err != nil {
		return err
	}
	ap.AppointmentDay = timezone.DayKey(ap.AppointmentDateTime)
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeRepo) CountConsultedServices(_ context.Context, id uint) (int64, error) {
	return r.services[id], nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.sorted() {
		if ap.ClinicID != f.ClinicID {
			continue
		}
		if f.DentistID != 0 && ap.PrimaryDentistID != f.DentistID {
			continue
		}
		if f.CustomerID != 0 && ap.CustomerID != f.CustomerID {
			continue
		}
		if ap.AppointmentDateTime.Before(f.Start) || !ap.AppointmentDateTime.Before(f.End) {
			continue
		}
		cp := *ap
		cp.Customer = r.customers[ap.CustomerID]
		cp.PrimaryDentist = r.employees[ap.PrimaryDentistID]
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeRepo) sorted() []*models.Appointment {
	out := make([]*models.Appointment, 0, len(r.appointments))
	for _, ap := range r.appointments {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentDateTime.Before(out[j].AppointmentDateTime)
	})
	return out
}
