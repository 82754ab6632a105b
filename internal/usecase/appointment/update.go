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

type UpdateAppointmentInput struct {
	Actor         access.Actor
	AppointmentID uint

	PrimaryDentistID      *uint
	SecondaryDentistID    *uint
	ClearSecondaryDentist bool

	AppointmentDateTime *time.Time
	Duration            *int
	Notes               *string
	Status              *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	clinicID := in.Actor.ClinicID

	ap, err := loadAppointment(ctx, uc.repo, clinicID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	// --------------------------------------------------
	// Schedule
	// --------------------------------------------------
	if in.AppointmentDateTime != nil || in.Duration != nil {
		if ap.CheckInTime != nil {
			return nil, httperr.ErrBadRequest("already_checked_in", "Không thể đổi giờ lịch hẹn đã check-in.")
		}
	}

	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, httperr.ErrBadRequest("invalid_duration", "Thời lượng không hợp lệ.")
		}
		ap.Duration = *in.Duration
	}

	if in.AppointmentDateTime != nil {
		start := in.AppointmentDateTime.In(timezone.Clinic())
		if !start.After(now) {
			return nil, httperr.ErrBadRequest("appointment_in_past", "Không thể dời lịch hẹn về quá khứ.")
		}
		if domain.Status(ap.Status).Active() {
			if err := assertFreeDay(ctx, uc.repo, ap.CustomerID, start, ap.ID); err != nil {
				return nil, err
			}
		}
		ap.AppointmentDateTime = start
		ap.AppointmentDay = timezone.DayKey(start)
	}

	// --------------------------------------------------
	// Dentists
	// --------------------------------------------------
	if in.PrimaryDentistID != nil {
		if _, err := loadDentist(ctx, uc.repo, clinicID, *in.PrimaryDentistID); err != nil {
			return nil, err
		}
		ap.PrimaryDentistID = *in.PrimaryDentistID
	}

	if in.ClearSecondaryDentist {
		ap.SecondaryDentistID = nil
	} else if in.SecondaryDentistID != nil {
		if _, err := loadDentist(ctx, uc.repo, clinicID, *in.SecondaryDentistID); err != nil {
			return nil, err
		}
		ap.SecondaryDentistID = in.SecondaryDentistID
	}

	if ap.SecondaryDentistID != nil && *ap.SecondaryDentistID == ap.PrimaryDentistID {
		return nil, httperr.ErrBadRequest("invalid_secondary_dentist", "Bác sĩ phụ phải khác bác sĩ chính.")
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	// --------------------------------------------------
	// Status (through the same preconditions as the actions)
	// --------------------------------------------------
	previous := ap.Status
	if in.Status != nil && *in.Status != ap.Status {
		target, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if err := domain.ChangeStatus(ap, target, now, in.Actor.ID); err != nil {
			return nil, err
		}
	}

	actorID := in.Actor.ID
	ap.UpdatedByID = &actorID
	ap.UpdatedAt = now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, translateDayViolation(ctx, uc.repo, err, ap.CustomerID, ap.AppointmentDateTime, ap.ID)
	}

	dispatch(uc.audit, clinicID, actorID, "appointment_updated", ap, map[string]any{
		"from": previous,
		"to":   ap.Status,
	})

	return ap, nil
}
