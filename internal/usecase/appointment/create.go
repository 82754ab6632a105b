package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Actor access.Actor

	CustomerID         uint
	PrimaryDentistID   uint
	SecondaryDentistID *uint

	AppointmentDateTime time.Time
	Duration            int
	Status              string
	Notes               string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	clinicID := in.Actor.ClinicID

	// --------------------------------------------------
	// 1. Customer / dentists
	// --------------------------------------------------
	if _, err := loadCustomer(ctx, uc.repo, clinicID, in.CustomerID); err != nil {
		return nil, err
	}

	if _, err := loadDentist(ctx, uc.repo, clinicID, in.PrimaryDentistID); err != nil {
		return nil, err
	}

	if in.SecondaryDentistID != nil {
		if *in.SecondaryDentistID == in.PrimaryDentistID {
			return nil, httperr.ErrBadRequest("invalid_secondary_dentist", "Bác sĩ phụ phải khác bác sĩ chính.")
		}
		if _, err := loadDentist(ctx, uc.repo, clinicID, *in.SecondaryDentistID); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 2. Time
	// --------------------------------------------------
	now := uc.now()
	start := in.AppointmentDateTime.In(timezone.Clinic())
	if !start.After(now) {
		return nil, httperr.ErrBadRequest("appointment_in_past", "Không thể đặt lịch hẹn trong quá khứ.")
	}

	duration := in.Duration
	if duration == 0 {
		duration = domain.DefaultDuration
	}
	if duration < 0 {
		return nil, httperr.ErrBadRequest("invalid_duration", "Thời lượng không hợp lệ.")
	}

	// --------------------------------------------------
	// 3. Status
	// --------------------------------------------------
	status := domain.InitialStatus()
	if in.Status != "" {
		parsed, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if err := domain.CanCreateWith(parsed); err != nil {
			return nil, err
		}
		status = parsed
	}

	// --------------------------------------------------
	// 4. Same-day guard
	// --------------------------------------------------
	if err := assertFreeDay(ctx, uc.repo, in.CustomerID, start, 0); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Create
	// --------------------------------------------------
	actorID := in.Actor.ID
	ap := &models.Appointment{
		ClinicID:            clinicID,
		CustomerID:          in.CustomerID,
		PrimaryDentistID:    in.PrimaryDentistID,
		SecondaryDentistID:  in.SecondaryDentistID,
		AppointmentDateTime: start,
		AppointmentDay:      timezone.DayKey(start),
		Duration:            duration,
		Status:              string(status),
		Notes:               in.Notes,
		CreatedByID:         &actorID,
		UpdatedByID:         &actorID,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, translateDayViolation(ctx, uc.repo, err, in.CustomerID, start, 0)
	}

	dispatch(uc.audit, clinicID, actorID, "appointment_created", ap, map[string]any{
		"customerId": ap.CustomerID,
		"at":         ap.AppointmentDateTime,
		"status":     ap.Status,
	})

	return ap, nil
}
