package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const (
	DefaultDuration = 30
	WalkInNote      = "Khách đến không hẹn trước"
)

// ===============================
// Domain Actions
// ===============================

func touch(ap *models.Appointment, now time.Time, actorID uint) {
	ap.UpdatedByID = &actorID
	ap.UpdatedAt = now
}

func Confirm(ap *models.Appointment, now time.Time, actorID uint) error {
	if Status(ap.Status) != StatusPending {
		return httperr.ErrBadRequest("invalid_state", "Chỉ có thể xác nhận lịch hẹn đang chờ xác nhận.")
	}
	if err := Transition(Status(ap.Status), StatusConfirmed).Err(); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	touch(ap, now, actorID)
	return nil
}

func CheckIn(ap *models.Appointment, now time.Time, actorID uint) error {
	if ap.CheckInTime != nil {
		return httperr.ErrBadRequest(
			"already_checked_in",
			fmt.Sprintf("Khách hàng đã check-in lúc %s.", timezone.Display(*ap.CheckInTime)),
		)
	}
	if !timezone.SameDay(ap.AppointmentDateTime, now) {
		return httperr.ErrBadRequest("checkin_not_today", "Chỉ có thể check-in lịch hẹn của ngày hôm nay.")
	}
	if err := Transition(Status(ap.Status), StatusArrived).Err(); err != nil {
		return err
	}

	ap.Status = string(StatusArrived)
	ap.CheckInTime = &now
	touch(ap, now, actorID)
	return nil
}

func CheckOut(ap *models.Appointment, now time.Time, actorID uint) error {
	if ap.CheckInTime == nil {
		return httperr.ErrBadRequest("not_checked_in", "Khách hàng chưa check-in.")
	}
	if ap.CheckOutTime != nil {
		return httperr.ErrBadRequest(
			"already_checked_out",
			fmt.Sprintf("Khách hàng đã check-out lúc %s.", timezone.Display(*ap.CheckOutTime)),
		)
	}

	ap.CheckOutTime = &now
	touch(ap, now, actorID)
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time, actorID uint) error {
	if now.Before(ap.AppointmentDateTime) {
		return httperr.ErrBadRequest("appointment_not_passed", "Chưa đến giờ hẹn, không thể đánh dấu không đến.")
	}
	if ap.CheckInTime != nil {
		return httperr.ErrBadRequest("already_checked_in", "Khách hàng đã check-in, không thể đánh dấu không đến.")
	}
	if err := Transition(Status(ap.Status), StatusNoShow).Err(); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	touch(ap, now, actorID)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, actorID uint) error {
	if ap.CheckInTime != nil {
		return httperr.ErrBadRequest("already_checked_in", "Khách hàng đã check-in, không thể hủy lịch hẹn.")
	}
	if err := Transition(Status(ap.Status), StatusCancelled).Err(); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	touch(ap, now, actorID)
	return nil
}

// ChangeStatus routes a generic status edit through the action carrying the
// same preconditions, so edits cannot bypass them.
func ChangeStatus(ap *models.Appointment, target Status, now time.Time, actorID uint) error {
	switch target {
	case StatusConfirmed:
		if Status(ap.Status) == StatusPending {
			return Confirm(ap, now, actorID)
		}
	case StatusArrived:
		return CheckIn(ap, now, actorID)
	case StatusNoShow:
		return MarkNoShow(ap, now, actorID)
	case StatusCancelled:
		return Cancel(ap, now, actorID)
	case StatusWalkIn:
		return httperr.ErrBadRequest("invalid_transition", "Trạng thái đến đột xuất chỉ được tạo khi check-in không hẹn trước.")
	}

	if err := Transition(Status(ap.Status), target).Err(); err != nil {
		return err
	}
	ap.Status = string(target)
	touch(ap, now, actorID)
	return nil
}

// NewWalkIn builds today's appointment for a customer who arrived without one.
func NewWalkIn(clinicID, customerID, dentistID uint, notes string, now time.Time, actorID uint) *models.Appointment {
	if notes == "" {
		notes = WalkInNote
	}
	return &models.Appointment{
		ClinicID:            clinicID,
		CustomerID:          customerID,
		PrimaryDentistID:    dentistID,
		AppointmentDateTime: now,
		AppointmentDay:      timezone.DayKey(now),
		Duration:            DefaultDuration,
		Status:              string(StatusWalkIn),
		CheckInTime:         &now,
		Notes:               notes,
		CreatedByID:         &actorID,
		UpdatedByID:         &actorID,
	}
}

// SameDayConflict names the existing appointment that blocks a booking.
func SameDayConflict(existing *models.Appointment) error {
	return httperr.WithExtra(
		httperr.ErrBadRequest(
			"same_day_conflict",
			fmt.Sprintf(
				"Khách hàng đã có lịch hẹn lúc %s trong ngày này.",
				timezone.Display(existing.AppointmentDateTime),
			),
		),
		"existingAppointmentId", existing.ID,
	)
}
