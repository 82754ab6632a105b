package care

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/care"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type CreateTreatmentCareInput struct {
	Actor         access.Actor
	CustomerID    uint
	TreatmentDate string
	CareAt        *time.Time
	CareContent   string
	CareStatus    string
}

type CreateTreatmentCare struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateTreatmentCare(repo domain.Repository, audit *audit.Dispatcher) *CreateTreatmentCare {
	return &CreateTreatmentCare{repo: repo, audit: audit, now: timezone.Now}
}

// Execute records an aftercare contact. The service and dentist names are
// copied from the customer's treatment logs of TreatmentDate.
func (uc *CreateTreatmentCare) Execute(
	ctx context.Context,
	in CreateTreatmentCareInput,
) (*models.TreatmentCare, error) {

	clinicID := in.Actor.ClinicID

	day, err := timezone.ParseDay(in.TreatmentDate)
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date", "Ngày điều trị không hợp lệ (YYYY-MM-DD).")
	}
	if strings.TrimSpace(in.CareContent) == "" {
		return nil, httperr.ErrBadRequest("content_required", "Vui lòng nhập nội dung chăm sóc.")
	}
	status, err := domain.ParseStatus(in.CareStatus)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetCustomer(ctx, clinicID, in.CustomerID); err != nil {
		return nil, notFound(err, "customer_not_found", "Không tìm thấy khách hàng.")
	}

	dayKey := timezone.DayKey(day)
	logs, err := uc.repo.LogsForDay(ctx, clinicID, in.CustomerID, dayKey)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, httperr.ErrBadRequest(
			"no_treatment_on_date",
			"Khách hàng không có điều trị nào trong ngày đã chọn.",
		)
	}

	services, dentists := domain.Snapshot(logs)

	careAt := uc.now()
	if in.CareAt != nil {
		careAt = *in.CareAt
	}

	c := &models.TreatmentCare{
		ClinicID:              clinicID,
		CustomerID:            in.CustomerID,
		TreatmentDate:         dayKey,
		CareAt:                careAt,
		CareContent:           strings.TrimSpace(in.CareContent),
		CareStatus:            status,
		TreatmentServiceNames: services,
		TreatingDoctorNames:   dentists,
		CareStaffID:           in.Actor.ID,
	}

	if err := uc.repo.CreateTreatmentCare(ctx, c); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		id := c.ID
		uc.audit.Dispatch(audit.Event{
			ClinicID: clinicID,
			UserID:   in.Actor.Ref(),
			Action:   "treatment_care_created",
			Entity:   "treatment_care",
			EntityID: &id,
			Metadata: map[string]any{"status": c.CareStatus},
		})
	}

	return c, nil
}

type ListTreatmentCares struct {
	repo domain.Repository
}

func NewListTreatmentCares(repo domain.Repository) *ListTreatmentCares {
	return &ListTreatmentCares{repo: repo}
}

// Execute lists cares between the clinic days from and to, both inclusive.
func (uc *ListTreatmentCares) Execute(
	ctx context.Context,
	clinicID uint,
	from time.Time,
	to time.Time,
) ([]domain.Day, error) {

	start, _ := timezone.DayBounds(from)
	_, end := timezone.DayBounds(to)
	if end.Before(start) {
		return nil, httperr.ErrBadRequest("invalid_range", "Khoảng thời gian không hợp lệ.")
	}

	cares, err := uc.repo.ListTreatmentCares(ctx, clinicID, start, end)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDay(cares), nil
}

type DeleteTreatmentCare struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewDeleteTreatmentCare(repo domain.Repository, audit *audit.Dispatcher) *DeleteTreatmentCare {
	return &DeleteTreatmentCare{repo: repo, audit: audit, now: timezone.Now}
}

func (uc *DeleteTreatmentCare) Execute(
	ctx context.Context,
	actor access.Actor,
	careID uint,
) error {

	c, err := uc.repo.GetTreatmentCare(ctx, actor.ClinicID, careID)
	if err != nil {
		return notFound(err, "treatment_care_not_found", "Không tìm thấy bản ghi chăm sóc.")
	}

	if err := domain.CanDelete(actor, c, uc.now()); err != nil {
		return err
	}

	if err := uc.repo.DeleteTreatmentCare(ctx, c.ID); err != nil {
		return err
	}

	if uc.audit != nil {
		id := c.ID
		uc.audit.Dispatch(audit.Event{
			ClinicID: actor.ClinicID,
			UserID:   actor.Ref(),
			Action:   "treatment_care_deleted",
			Entity:   "treatment_care",
			EntityID: &id,
		})
	}
	return nil
}
