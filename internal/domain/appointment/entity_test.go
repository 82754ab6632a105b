package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func vn(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, timezone.Clinic())
}

func booking(status Status, at time.Time) *models.Appointment {
	return &models.Appointment{
		ID:                  7,
		CustomerID:          1,
		PrimaryDentistID:    2,
		AppointmentDateTime: at,
		Duration:            DefaultDuration,
		Status:              string(status),
	}
}

func TestConfirm(t *testing.T) {
	at := vn(2025, 8, 10, 9, 0)
	now := vn(2025, 8, 9, 15, 0)

	ap := booking(StatusPending, at)
	require.NoError(t, Confirm(ap, now, 5))
	assert.Equal(t, string(StatusConfirmed), ap.Status)
	require.NotNil(t, ap.UpdatedByID)
	assert.Equal(t, uint(5), *ap.UpdatedByID)

	err := Confirm(ap, now, 5)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCheckIn(t *testing.T) {
	at := vn(2025, 8, 10, 9, 0)
	now := vn(2025, 8, 10, 8, 45)

	ap := booking(StatusConfirmed, at)
	require.NoError(t, CheckIn(ap, now, 5))
	assert.Equal(t, string(StatusArrived), ap.Status)
	require.NotNil(t, ap.CheckInTime)
	assert.True(t, ap.CheckInTime.Equal(now))

	t.Run("second check-in is refused", func(t *testing.T) {
		err := CheckIn(ap, now.Add(time.Minute), 5)
		assert.True(t, httperr.IsBusiness(err, "already_checked_in"))
		assert.True(t, ap.CheckInTime.Equal(now))
	})

	t.Run("only today", func(t *testing.T) {
		other := booking(StatusConfirmed, at.AddDate(0, 0, 1))
		err := CheckIn(other, now, 5)
		assert.True(t, httperr.IsBusiness(err, "checkin_not_today"))
		assert.Nil(t, other.CheckInTime)
	})

	t.Run("late arrival after no-show", func(t *testing.T) {
		late := booking(StatusNoShow, at)
		require.NoError(t, CheckIn(late, now.Add(3*time.Hour), 5))
		assert.Equal(t, string(StatusArrived), late.Status)
	})

	t.Run("cancelled cannot check in", func(t *testing.T) {
		c := booking(StatusCancelled, at)
		err := CheckIn(c, now, 5)
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
		assert.Nil(t, c.CheckInTime)
	})
}

func TestCheckOut(t *testing.T) {
	at := vn(2025, 8, 10, 9, 0)
	now := vn(2025, 8, 10, 9, 5)

	ap := booking(StatusConfirmed, at)
	assert.True(t, httperr.IsBusiness(CheckOut(ap, now, 1), "not_checked_in"))

	require.NoError(t, CheckIn(ap, now, 1))
	require.NoError(t, CheckOut(ap, now.Add(time.Hour), 1))
	require.NotNil(t, ap.CheckOutTime)
	assert.Equal(t, string(StatusArrived), ap.Status)

	assert.True(t, httperr.IsBusiness(CheckOut(ap, now.Add(2*time.Hour), 1), "already_checked_out"))
}

func TestMarkNoShow(t *testing.T) {
	at := vn(2025, 8, 10, 9, 0)

	t.Run("before the scheduled time", func(t *testing.T) {
		ap := booking(StatusConfirmed, at)
		err := MarkNoShow(ap, at.Add(-time.Minute), 1)
		assert.True(t, httperr.IsBusiness(err, "appointment_not_passed"))
		assert.Equal(t, string(StatusConfirmed), ap.Status)
	})

	t.Run("after the scheduled time", func(t *testing.T) {
		ap := booking(StatusConfirmed, at)
		require.NoError(t, MarkNoShow(ap, at.Add(time.Hour), 1))
		assert.Equal(t, string(StatusNoShow), ap.Status)
	})

	t.Run("checked in", func(t *testing.T) {
		ap := booking(StatusConfirmed, at)
		require.NoError(t, CheckIn(ap, at, 1))
		err := MarkNoShow(ap, at.Add(time.Hour), 1)
		assert.True(t, httperr.IsBusiness(err, "already_checked_in"))
	})

	t.Run("table forbids", func(t *testing.T) {
		ap := booking(StatusCancelled, at)
		err := MarkNoShow(ap, at.Add(time.Hour), 1)
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
	})
}

func TestChangeStatus(t *testing.T) {
	at := vn(2025, 8, 10, 9, 0)

	ap := booking(StatusConfirmed, at)
	require.NoError(t, ChangeStatus(ap, StatusPending, at.Add(-time.Hour), 1))
	assert.Equal(t, string(StatusPending), ap.Status)

	err := ChangeStatus(ap, StatusWalkIn, at, 1)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	require.NoError(t, ChangeStatus(ap, StatusArrived, at, 1))
	assert.NotNil(t, ap.CheckInTime)

	err = ChangeStatus(ap, StatusPending, at, 1)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

func TestNewWalkIn(t *testing.T) {
	now := vn(2025, 8, 10, 14, 0)

	ap := NewWalkIn(1, 3, 4, "", now, 9)

	assert.Equal(t, string(StatusWalkIn), ap.Status)
	assert.Equal(t, DefaultDuration, ap.Duration)
	assert.Equal(t, WalkInNote, ap.Notes)
	assert.Equal(t, "2025-08-10", ap.AppointmentDay)
	require.NotNil(t, ap.CheckInTime)
	assert.True(t, ap.CheckInTime.Equal(now))
}

func TestSameDayConflict(t *testing.T) {
	err := SameDayConflict(&models.Appointment{ID: 11, AppointmentDateTime: vn(2025, 8, 10, 9, 0)})

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 400, be.HTTPStatus())
	assert.Contains(t, be.Message, "09:00 10/08/2025")
	assert.Equal(t, uint(11), be.Extra["existingAppointmentId"])
}
