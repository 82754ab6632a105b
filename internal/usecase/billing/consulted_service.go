package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// CREATE
// ======================================================

type CreateConsultedServiceInput struct {
	Actor access.Actor

	CustomerID        uint
	DentalServiceID   uint
	PreferentialPrice *decimal.Decimal
	Quantity          int

	ConsultingDoctorID *uint
	TreatingDoctorID   *uint
	ToothPositions     []string
	Notes              string
}

type CreateConsultedService struct {
	repo    domain.Repository
	catalog domain.Catalog
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCreateConsultedService(
	repo domain.Repository,
	catalog domain.Catalog,
	audit *audit.Dispatcher,
) *CreateConsultedService {
	return &CreateConsultedService{
		repo:    repo,
		catalog: catalog,
		audit:   audit,
		now:     timezone.Now,
	}
}

func (uc *CreateConsultedService) Execute(
	ctx context.Context,
	in CreateConsultedServiceInput,
) (*models.ConsultedService, error) {

	clinicID := in.Actor.ClinicID

	if _, err := uc.repo.GetCustomer(ctx, clinicID, in.CustomerID); err != nil {
		return nil, notFound(err, "customer_not_found", "Không tìm thấy khách hàng.")
	}

	// --------------------------------------------------
	// Today's check-in
	// --------------------------------------------------
	now := uc.now()
	start, end := timezone.DayBounds(now)

	ap, err := uc.repo.FindCheckedInToday(ctx, in.CustomerID, start, end)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.WithExtra(
			httperr.ErrBadRequest(
				"needs_checkin",
				"Khách hàng chưa check-in hôm nay. Vui lòng check-in trước khi thêm dịch vụ.",
			),
			"needsCheckin", true,
		)
	}

	// --------------------------------------------------
	// Catalog snapshot
	// --------------------------------------------------
	catalogItem, err := uc.catalog.GetDentalService(ctx, in.DentalServiceID)
	if err != nil {
		return nil, notFound(err, "dental_service_not_found", "Không tìm thấy dịch vụ nha khoa.")
	}
	if !catalogItem.Active {
		return nil, httperr.ErrBadRequest("dental_service_inactive", "Dịch vụ nha khoa đã ngừng áp dụng.")
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	line, err := domain.PriceLine(catalogItem.Price, in.PreferentialPrice, quantity)
	if err != nil {
		return nil, err
	}

	actorID := in.Actor.ID
	s := &models.ConsultedService{
		ClinicID:             clinicID,
		CustomerID:           in.CustomerID,
		AppointmentID:        ap.ID,
		DentalServiceID:      catalogItem.ID,
		ConsultedServiceName: catalogItem.Name,
		ConsultedServiceUnit: catalogItem.Unit,
		AmountPaid:           decimal.Zero,
		ServiceStatus:        models.ServiceStatusUnconfirmed,
		ConsultingDoctorID:   in.ConsultingDoctorID,
		TreatingDoctorID:     in.TreatingDoctorID,
		ToothPositions:       in.ToothPositions,
		ConsultationDate:     now,
		Notes:                in.Notes,
		CreatedByID:          &actorID,
		UpdatedByID:          &actorID,
	}
	line.Apply(s)

	if err := uc.repo.CreateConsultedService(ctx, s); err != nil {
		return nil, err
	}

	dispatch(uc.audit, in.Actor, "consulted_service_created", "consulted_service", s.ID, map[string]any{
		"appointmentId": s.AppointmentID,
		"finalPrice":    s.FinalPrice,
	})

	return s, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateConsultedServiceInput struct {
	Actor     access.Actor
	ServiceID uint

	PreferentialPrice  *decimal.Decimal
	Quantity           *int
	ConsultingDoctorID *uint
	TreatingDoctorID   *uint
	ToothPositions     []string
	Notes              *string
}

type UpdateConsultedService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateConsultedService(repo domain.Repository, audit *audit.Dispatcher) *UpdateConsultedService {
	return &UpdateConsultedService{repo: repo, audit: audit, now: timezone.Now}
}

func (uc *UpdateConsultedService) Execute(
	ctx context.Context,
	in UpdateConsultedServiceInput,
) (*models.ConsultedService, error) {

	var out *models.ConsultedService

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := tx.LockConsultedServices(ctx, in.Actor.ClinicID, []uint{in.ServiceID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return missingService()
		}
		s := &locked[0]

		if s.ServiceStatus == models.ServiceStatusConfirmed && !in.Actor.IsAdmin() {
			return httperr.ErrForbidden("service_confirmed", "Dịch vụ đã chốt, chỉ quản trị viên được chỉnh sửa.")
		}

		if err := domain.Reprice(s, in.PreferentialPrice, in.Quantity); err != nil {
			return err
		}

		if in.ConsultingDoctorID != nil {
			s.ConsultingDoctorID = in.ConsultingDoctorID
		}
		if in.TreatingDoctorID != nil {
			s.TreatingDoctorID = in.TreatingDoctorID
		}
		if in.ToothPositions != nil {
			s.ToothPositions = in.ToothPositions
		}
		if in.Notes != nil {
			s.Notes = *in.Notes
		}

		s.UpdatedByID = in.Actor.Ref()
		s.UpdatedAt = uc.now()

		if err := tx.UpdateConsultedService(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, in.Actor, "consulted_service_updated", "consulted_service", out.ID, map[string]any{
		"finalPrice": out.FinalPrice,
	})

	return out, nil
}

// ======================================================
// CONFIRM
// ======================================================

type ConfirmConsultedService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewConfirmConsultedService(repo domain.Repository, audit *audit.Dispatcher) *ConfirmConsultedService {
	return &ConfirmConsultedService{repo: repo, audit: audit, now: timezone.Now}
}

func (uc *ConfirmConsultedService) Execute(
	ctx context.Context,
	actor access.Actor,
	serviceID uint,
) (*models.ConsultedService, error) {

	s, err := uc.repo.GetConsultedService(ctx, actor.ClinicID, serviceID)
	if err != nil {
		return nil, serviceNotFound(err)
	}

	if s.ServiceStatus == models.ServiceStatusConfirmed {
		return nil, httperr.ErrBadRequest("already_confirmed", "Dịch vụ đã được chốt trước đó.")
	}

	now := uc.now()
	s.ServiceStatus = models.ServiceStatusConfirmed
	s.ServiceConfirmDate = &now
	s.UpdatedByID = actor.Ref()
	s.UpdatedAt = now

	if err := uc.repo.UpdateConsultedService(ctx, s); err != nil {
		return nil, err
	}

	dispatch(uc.audit, actor, "consulted_service_confirmed", "consulted_service", s.ID, nil)
	return s, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteConsultedService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteConsultedService(repo domain.Repository, audit *audit.Dispatcher) *DeleteConsultedService {
	return &DeleteConsultedService{repo: repo, audit: audit}
}

func (uc *DeleteConsultedService) Execute(
	ctx context.Context,
	actor access.Actor,
	serviceID uint,
) error {

	var deleted *models.ConsultedService

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := tx.LockConsultedServices(ctx, actor.ClinicID, []uint{serviceID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return missingService()
		}
		s := &locked[0]

		if !s.AmountPaid.IsZero() {
			return httperr.ErrBadRequest(
				"service_has_payments",
				"Dịch vụ đã có thanh toán, vui lòng xóa phiếu thu trước.",
			)
		}
		if s.ServiceStatus == models.ServiceStatusConfirmed && !actor.IsAdmin() {
			return httperr.ErrForbidden("service_confirmed", "Dịch vụ đã chốt, chỉ quản trị viên được xóa.")
		}

		deleted = s
		return tx.DeleteConsultedService(ctx, s.ID)
	})
	if err != nil {
		return err
	}

	dispatch(uc.audit, actor, "consulted_service_deleted", "consulted_service", deleted.ID, map[string]any{
		"name":       deleted.ConsultedServiceName,
		"finalPrice": deleted.FinalPrice,
	})
	return nil
}

// ======================================================
// READ
// ======================================================

type ListConsultedServices struct {
	repo domain.Repository
}

func NewListConsultedServices(repo domain.Repository) *ListConsultedServices {
	return &ListConsultedServices{repo: repo}
}

func (uc *ListConsultedServices) Execute(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) ([]models.ConsultedService, error) {
	return uc.repo.ListConsultedServices(ctx, clinicID, customerID)
}

type GetConsultedService struct {
	repo domain.Repository
}

func NewGetConsultedService(repo domain.Repository) *GetConsultedService {
	return &GetConsultedService{repo: repo}
}

func (uc *GetConsultedService) Execute(
	ctx context.Context,
	clinicID uint,
	serviceID uint,
) (*models.ConsultedService, error) {
	s, err := uc.repo.GetConsultedService(ctx, clinicID, serviceID)
	if err != nil {
		return nil, serviceNotFound(err)
	}
	return s, nil
}
