package care

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/care"
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

type CreateTreatmentLogInput struct {
	Actor              access.Actor
	AppointmentID      uint
	ConsultedServiceID uint
	DentistID          uint
	AssistantID        *uint
	Content            string
	NextStep           string
}

type CreateTreatmentLog struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateTreatmentLog(repo domain.Repository, audit *audit.Dispatcher) *CreateTreatmentLog {
	return &CreateTreatmentLog{repo: repo, audit: audit}
}

func (uc *CreateTreatmentLog) Execute(
	ctx context.Context,
	in CreateTreatmentLogInput,
) (*models.TreatmentLog, error) {

	clinicID := in.Actor.ClinicID

	if strings.TrimSpace(in.Content) == "" {
		return nil, httperr.ErrBadRequest("content_required", "Vui lòng nhập nội dung điều trị.")
	}

	ap, err := uc.repo.GetAppointment(ctx, clinicID, in.AppointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found", "Không tìm thấy lịch hẹn.")
	}
	if ap.CheckInTime == nil {
		return nil, httperr.ErrBadRequest("not_checked_in", "Khách hàng chưa check-in cho lịch hẹn này.")
	}

	svc, err := uc.repo.GetConsultedService(ctx, clinicID, in.ConsultedServiceID)
	if err != nil {
		return nil, notFound(err, "consulted_service_not_found", "Không tìm thấy dịch vụ tư vấn.")
	}
	if svc.CustomerID != ap.CustomerID {
		return nil, httperr.ErrBadRequest("service_customer_mismatch", "Dịch vụ không thuộc khách hàng của lịch hẹn.")
	}

	dentist, err := uc.repo.GetEmployee(ctx, clinicID, in.DentistID)
	if err != nil {
		return nil, notFound(err, "dentist_not_found", "Không tìm thấy bác sĩ.")
	}

	l := &models.TreatmentLog{
		ClinicID:           clinicID,
		CustomerID:         ap.CustomerID,
		AppointmentID:      ap.ID,
		ConsultedServiceID: svc.ID,
		DentistID:          dentist.ID,
		AssistantID:        in.AssistantID,
		TreatmentDate:      timezone.DayKey(*ap.CheckInTime),
		Content:            strings.TrimSpace(in.Content),
		NextStep:           strings.TrimSpace(in.NextStep),
		ServiceName:        svc.ConsultedServiceName,
		DentistName:        dentist.FullName,
		CreatedByID:        in.Actor.Ref(),
	}

	if err := uc.repo.CreateTreatmentLog(ctx, l); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		id := l.ID
		uc.audit.Dispatch(audit.Event{
			ClinicID: clinicID,
			UserID:   in.Actor.Ref(),
			Action:   "treatment_log_created",
			Entity:   "treatment_log",
			EntityID: &id,
		})
	}

	return l, nil
}

type ListTreatmentLogs struct {
	repo domain.Repository
}

func NewListTreatmentLogs(repo domain.Repository) *ListTreatmentLogs {
	return &ListTreatmentLogs{repo: repo}
}

func (uc *ListTreatmentLogs) Execute(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) ([]models.TreatmentLog, error) {
	if customerID == 0 {
		return nil, httperr.ErrBadRequest("customer_required", "Vui lòng chọn khách hàng.")
	}
	return uc.repo.ListTreatmentLogs(ctx, clinicID, customerID)
}
