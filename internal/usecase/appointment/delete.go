package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
) error {

	if err := actor.RequireAdmin("Chỉ quản trị viên được xóa lịch hẹn."); err != nil {
		return err
	}

	ap, err := loadAppointment(ctx, uc.repo, actor.ClinicID, appointmentID)
	if err != nil {
		return err
	}

	count, err := uc.repo.CountConsultedServices(ctx, ap.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBadRequest(
			"appointment_has_services",
			"Lịch hẹn đã có dịch vụ tư vấn, không thể xóa.",
		)
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return err
	}

	dispatch(uc.audit, actor.ClinicID, actor.ID, "appointment_deleted", ap, map[string]any{
		"customerId": ap.CustomerID,
		"at":         ap.AppointmentDateTime,
		"status":     ap.Status,
	})

	return nil
}
