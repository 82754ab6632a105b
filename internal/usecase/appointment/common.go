package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found", "Không tìm thấy lịch hẹn.")
	}
	return ap, nil
}

func loadDentist(
	ctx context.Context,
	repo domain.Repository,
	clinicID uint,
	dentistID uint,
) (*models.Employee, error) {
	dentist, err := repo.GetEmployee(ctx, clinicID, dentistID)
	if err != nil {
		return nil, notFound(err, "dentist_not_found", "Không tìm thấy bác sĩ.")
	}
	if !dentist.Active {
		return nil, httperr.ErrBadRequest("dentist_inactive", "Bác sĩ đã ngừng hoạt động.")
	}
	return dentist, nil
}

func loadCustomer(
	ctx context.Context,
	repo domain.Repository,
	clinicID uint,
	customerID uint,
) (*models.Customer, error) {
	customer, err := repo.GetCustomer(ctx, clinicID, customerID)
	if err != nil {
		return nil, notFound(err, "customer_not_found", "Không tìm thấy khách hàng.")
	}
	return customer, nil
}

// assertFreeDay enforces the same-day guard before a write.
func assertFreeDay(
	ctx context.Context,
	repo domain.Repository,
	customerID uint,
	at time.Time,
	excludeID uint,
) error {
	start, end := timezone.DayBounds(at)

	existing, err := repo.FindActiveForDay(ctx, customerID, start, end, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.SameDayConflict(existing)
	}
	return nil
}

// translateDayViolation turns a lost race on the per-day unique index into the
// same conflict the pre-check reports.
func translateDayViolation(
	ctx context.Context,
	repo domain.Repository,
	err error,
	customerID uint,
	at time.Time,
	excludeID uint,
) error {
	if !httperr.IsUniqueViolation(err, domain.ActiveDayConstraint) {
		return err
	}
	if guardErr := assertFreeDay(ctx, repo, customerID, at, excludeID); guardErr != nil {
		return guardErr
	}
	return httperr.ErrBadRequest("same_day_conflict", "Khách hàng đã có lịch hẹn trong ngày này.")
}

func dispatch(d *audit.Dispatcher, actorClinic uint, actorID uint, action string, ap *models.Appointment, meta any) {
	if d == nil {
		return
	}
	id := ap.ID
	d.Dispatch(audit.Event{
		ClinicID: actorClinic,
		UserID:   &actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &id,
		Metadata: meta,
	})
}
