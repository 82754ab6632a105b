package access

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Actor is the authenticated employee performing an operation.
type Actor struct {
	ID       uint
	ClinicID uint
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) Ref() *uint {
	id := a.ID
	return &id
}

// RequireAdmin rejects non-admin actors with 403.
func (a Actor) RequireAdmin(message string) error {
	if a.IsAdmin() {
		return nil
	}
	return httperr.ErrForbidden("admin_only", message)
}

// SameDayWindow allows admins at any time and everyone else only on the
// clinic day the record was created.
func (a Actor) SameDayWindow(createdAt, now time.Time, message string) error {
	if a.IsAdmin() || timezone.SameDay(createdAt, now) {
		return nil
	}
	return httperr.ErrForbidden("modify_window_closed", message)
}
