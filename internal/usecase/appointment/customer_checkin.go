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

type CustomerCheckInInput struct {
	Actor            access.Actor
	CustomerID       uint
	PrimaryDentistID uint
	Notes            string
}

type CustomerCheckInResult struct {
	Appointment *models.Appointment
	Created     bool
	Message     string
}

// CustomerCheckIn checks a customer in for today, creating a walk-in
// appointment when they have none.
type CustomerCheckIn struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCustomerCheckIn(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CustomerCheckIn {
	return &CustomerCheckIn{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

func (uc *CustomerCheckIn) Execute(
	ctx context.Context,
	in CustomerCheckInInput,
) (*CustomerCheckInResult, error) {

	clinicID := in.Actor.ClinicID

	if _, err := loadCustomer(ctx, uc.repo, clinicID, in.CustomerID); err != nil {
		return nil, err
	}

	now := uc.now()
	start, end := timezone.DayBounds(now)

	existing, err := uc.repo.FindActiveForDay(ctx, in.CustomerID, start, end, 0)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		previous := existing.Status
		if err := domain.CheckIn(existing, now, in.Actor.ID); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateAppointment(ctx, existing); err != nil {
			return nil, err
		}

		dispatch(uc.audit, clinicID, in.Actor.ID, "appointment_checked_in", existing, map[string]any{
			"from": previous,
			"to":   existing.Status,
		})

		return &CustomerCheckInResult{
			Appointment: existing,
			Message:     "Check-in thành công.",
		}, nil
	}

	// --------------------------------------------------
	// Walk-in
	// --------------------------------------------------
	if in.PrimaryDentistID == 0 {
		return nil, httperr.ErrBadRequest(
			"dentist_required",
			"Khách chưa có lịch hẹn hôm nay, vui lòng chọn bác sĩ để tạo lịch đến đột xuất.",
		)
	}
	if _, err := loadDentist(ctx, uc.repo, clinicID, in.PrimaryDentistID); err != nil {
		return nil, err
	}

	ap := domain.NewWalkIn(clinicID, in.CustomerID, in.PrimaryDentistID, in.Notes, now, in.Actor.ID)
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, translateDayViolation(ctx, uc.repo, err, in.CustomerID, now, 0)
	}

	dispatch(uc.audit, clinicID, in.Actor.ID, "appointment_walk_in", ap, nil)

	return &CustomerCheckInResult{
		Appointment: ap,
		Created:     true,
		Message:     "Đã tạo lịch hẹn đến đột xuất và check-in cho khách hàng.",
	}, nil
}
