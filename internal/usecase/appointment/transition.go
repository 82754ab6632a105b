package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
	ActionNoShow   Action = "no-show"
	ActionCancel   Action = "cancel"
)

type actionSpec struct {
	apply   func(ap *models.Appointment, now time.Time, actorID uint) error
	audit   string
	message string
}

var actions = map[Action]actionSpec{
	ActionConfirm:  {domain.Confirm, "appointment_confirmed", "Đã xác nhận lịch hẹn."},
	ActionCheckIn:  {domain.CheckIn, "appointment_checked_in", "Check-in thành công."},
	ActionCheckOut: {domain.CheckOut, "appointment_checked_out", "Check-out thành công."},
	ActionNoShow:   {domain.MarkNoShow, "appointment_no_show", "Đã đánh dấu khách không đến."},
	ActionCancel:   {domain.Cancel, "appointment_cancelled", "Đã hủy lịch hẹn."},
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actions[a]; !ok {
		return "", httperr.ErrNotFound("unknown_action", fmt.Sprintf("Thao tác %q không được hỗ trợ.", s))
	}
	return a, nil
}

// TransitionAppointment runs one lifecycle action against a stored appointment.
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

// Execute returns the updated appointment and the confirmation shown to staff.
func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	action Action,
) (*models.Appointment, string, error) {

	spec, ok := actions[action]
	if !ok {
		return nil, "", httperr.ErrNotFound("unknown_action", "Thao tác không được hỗ trợ.")
	}

	ap, err := loadAppointment(ctx, uc.repo, actor.ClinicID, appointmentID)
	if err != nil {
		return nil, "", err
	}

	previous := ap.Status
	if err := spec.apply(ap, uc.now(), actor.ID); err != nil {
		return nil, "", err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, "", err
	}

	dispatch(uc.audit, actor.ClinicID, actor.ID, spec.audit, ap, map[string]any{
		"from": previous,
		"to":   ap.Status,
	})

	return ap, spec.message, nil
}
