package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const DefaultVoucherNumberRetries = 5

// ErrVoucherNumberExhausted is returned once every numbering attempt collided.
var ErrVoucherNumberExhausted = httperr.BusinessError{
	Status:  500,
	Code:    "voucher_number_exhausted",
	Message: "Không thể cấp số phiếu thu, vui lòng thử lại.",
}

// ======================================================
// CREATE
// ======================================================

type CreatePaymentVoucherInput struct {
	Actor       access.Actor
	CustomerID  uint
	PaymentDate *time.Time
	Notes       string
	Details     []domain.DetailInput
}

type CreatePaymentVoucher struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	retries int
	now     func() time.Time
}

func NewCreatePaymentVoucher(
	repo domain.Repository,
	audit *audit.Dispatcher,
	retries int,
) *CreatePaymentVoucher {
	if retries <= 0 {
		retries = DefaultVoucherNumberRetries
	}
	return &CreatePaymentVoucher{
		repo:    repo,
		audit:   audit,
		retries: retries,
		now:     timezone.Now,
	}
}

// Execute allocates the next number of the clinic month and applies every
// line inside one transaction. A collision on the number restarts the whole
// transaction.
func (uc *CreatePaymentVoucher) Execute(
	ctx context.Context,
	in CreatePaymentVoucherInput,
) (*models.PaymentVoucher, error) {

	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= uc.retries; attempt++ {
		v, err := uc.attempt(ctx, in)
		if err == nil {
			dispatch(uc.audit, in.Actor, "payment_voucher_created", "payment_voucher", v.ID, map[string]any{
				"voucherNumber": v.VoucherNumber,
				"total":         v.TotalAmount,
			})
			return v, nil
		}

		if !httperr.IsUniqueViolation(err, domain.VoucherNumberConstraint) {
			return nil, err
		}

		log.Warn().
			Int("attempt", attempt).
			Uint("customer_id", in.CustomerID).
			Msg("voucher number collision, retrying")
	}

	log.Error().
		Int("attempts", uc.retries).
		Uint("clinic_id", in.Actor.ClinicID).
		Msg("voucher number allocation exhausted")

	return nil, ErrVoucherNumberExhausted
}

func (uc *CreatePaymentVoucher) attempt(
	ctx context.Context,
	in CreatePaymentVoucherInput,
) (*models.PaymentVoucher, error) {

	var out *models.PaymentVoucher

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		clinicID := in.Actor.ClinicID

		clinic, err := tx.GetClinic(ctx, clinicID)
		if err != nil {
			return notFound(err, "clinic_not_found", "Không tìm thấy phòng khám.")
		}
		if _, err := tx.GetCustomer(ctx, clinicID, in.CustomerID); err != nil {
			return notFound(err, "customer_not_found", "Không tìm thấy khách hàng.")
		}

		services, err := lockServices(ctx, tx, clinicID, domain.ServiceIDs(in.Details))
		if err != nil {
			return err
		}
		if err := domain.ValidateDetails(in.CustomerID, in.Details, services); err != nil {
			return err
		}

		now := uc.now()
		prefix := domain.VoucherPrefix(clinic.Code, now)
		issued, err := tx.VoucherNumbersWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}

		paymentDate := now
		if in.PaymentDate != nil {
			paymentDate = *in.PaymentDate
		}

		v := &models.PaymentVoucher{
			VoucherNumber: domain.NextVoucherNumber(prefix, issued),
			ClinicID:      clinicID,
			CustomerID:    in.CustomerID,
			PaymentDate:   paymentDate,
			TotalAmount:   domain.Total(in.Details),
			Notes:         in.Notes,
			CashierID:     in.Actor.ID,
			Details:       domain.BuildDetails(0, in.Details),
			CreatedByID:   in.Actor.Ref(),
			UpdatedByID:   in.Actor.Ref(),
		}

		if err := tx.CreateVoucher(ctx, v); err != nil {
			return err
		}

		for id, amount := range domain.AmountsByService(v.Details) {
			if err := tx.AdjustAmountPaid(ctx, id, amount); err != nil {
				return err
			}
		}

		out = v
		return nil
	})

	return out, err
}

// ======================================================
// UPDATE
// ======================================================

type UpdatePaymentVoucherInput struct {
	Actor       access.Actor
	VoucherID   uint
	PaymentDate *time.Time
	Notes       *string
	Details     []domain.DetailInput
}

type UpdatePaymentVoucher struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdatePaymentVoucher(repo domain.Repository, audit *audit.Dispatcher) *UpdatePaymentVoucher {
	return &UpdatePaymentVoucher{repo: repo, audit: audit, now: timezone.Now}
}

// Execute reverses the voucher's previous amounts before applying the new
// lines, all in one transaction.
func (uc *UpdatePaymentVoucher) Execute(
	ctx context.Context,
	in UpdatePaymentVoucherInput,
) (*models.PaymentVoucher, error) {

	var out *models.PaymentVoucher

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		clinicID := in.Actor.ClinicID
		now := uc.now()

		v, err := tx.LockVoucher(ctx, clinicID, in.VoucherID)
		if err != nil {
			return voucherNotFound(err)
		}

		if err := in.Actor.SameDayWindow(v.CreatedAt, now, "Chỉ được sửa phiếu thu trong ngày tạo."); err != nil {
			return err
		}

		previous := domain.AmountsByService(v.Details)
		previousIDs := make([]uint, 0, len(previous))
		for id := range previous {
			previousIDs = append(previousIDs, id)
		}

		services, err := lockServices(ctx, tx, clinicID, domain.UnionIDs(previousIDs, domain.ServiceIDs(in.Details)))
		if err != nil {
			return err
		}

		if err := reverse(ctx, tx, previous, services); err != nil {
			return err
		}
		if err := tx.DeleteVoucherDetails(ctx, v.ID); err != nil {
			return err
		}

		if err := domain.ValidateDetails(v.CustomerID, in.Details, services); err != nil {
			return err
		}

		details := domain.BuildDetails(v.ID, in.Details)
		if err := tx.CreateVoucherDetails(ctx, details); err != nil {
			return err
		}
		for id, amount := range domain.AmountsByService(details) {
			if err := tx.AdjustAmountPaid(ctx, id, amount); err != nil {
				return err
			}
		}

		v.Details = details
		v.TotalAmount = domain.Total(in.Details)
		if in.Notes != nil {
			v.Notes = *in.Notes
		}
		if in.PaymentDate != nil {
			v.PaymentDate = *in.PaymentDate
		}
		v.UpdatedByID = in.Actor.Ref()
		v.UpdatedAt = now

		if err := tx.UpdateVoucher(ctx, v); err != nil {
			return err
		}

		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, in.Actor, "payment_voucher_updated", "payment_voucher", out.ID, map[string]any{
		"voucherNumber": out.VoucherNumber,
		"total":         out.TotalAmount,
	})

	return out, nil
}

// ======================================================
// DELETE
// ======================================================

type DeletePaymentVoucher struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewDeletePaymentVoucher(repo domain.Repository, audit *audit.Dispatcher) *DeletePaymentVoucher {
	return &DeletePaymentVoucher{repo: repo, audit: audit, now: timezone.Now}
}

func (uc *DeletePaymentVoucher) Execute(
	ctx context.Context,
	actor access.Actor,
	voucherID uint,
) error {

	var deleted *models.PaymentVoucher

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		v, err := tx.LockVoucher(ctx, actor.ClinicID, voucherID)
		if err != nil {
			return voucherNotFound(err)
		}

		if err := actor.SameDayWindow(v.CreatedAt, uc.now(), "Chỉ được xóa phiếu thu trong ngày tạo."); err != nil {
			return err
		}

		previous := domain.AmountsByService(v.Details)
		ids := make([]uint, 0, len(previous))
		for id := range previous {
			ids = append(ids, id)
		}

		services, err := lockServices(ctx, tx, actor.ClinicID, domain.UnionIDs(ids))
		if err != nil {
			return err
		}
		if err := reverse(ctx, tx, previous, services); err != nil {
			return err
		}

		if err := tx.DeleteVoucherDetails(ctx, v.ID); err != nil {
			return err
		}
		if err := tx.DeleteVoucher(ctx, v.ID); err != nil {
			return err
		}

		deleted = v
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(uc.audit, actor, "payment_voucher_deleted", "payment_voucher", deleted.ID, map[string]any{
		"voucherNumber": deleted.VoucherNumber,
		"total":         deleted.TotalAmount,
	})
	return nil
}

// ======================================================
// READ
// ======================================================

type ListPaymentVouchers struct {
	repo domain.Repository
}

func NewListPaymentVouchers(repo domain.Repository) *ListPaymentVouchers {
	return &ListPaymentVouchers{repo: repo}
}

func (uc *ListPaymentVouchers) Execute(
	ctx context.Context,
	filter domain.VoucherFilter,
) ([]models.PaymentVoucher, int64, error) {
	return uc.repo.ListVouchers(ctx, filter)
}

type GetPaymentVoucher struct {
	repo domain.Repository
}

func NewGetPaymentVoucher(repo domain.Repository) *GetPaymentVoucher {
	return &GetPaymentVoucher{repo: repo}
}

func (uc *GetPaymentVoucher) Execute(
	ctx context.Context,
	clinicID uint,
	voucherID uint,
) (*models.PaymentVoucher, error) {
	v, err := uc.repo.GetVoucher(ctx, clinicID, voucherID)
	if err != nil {
		return nil, voucherNotFound(err)
	}
	return v, nil
}

// ======================================================
// HELPERS
// ======================================================

func lockServices(
	ctx context.Context,
	tx domain.Repository,
	clinicID uint,
	ids []uint,
) (map[uint]*models.ConsultedService, error) {
	rows, err := tx.LockConsultedServices(ctx, clinicID, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[uint]*models.ConsultedService, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// reverse takes previously applied amounts back off the services, both in the
// store and in the locked copies used to validate the new lines.
func reverse(
	ctx context.Context,
	tx domain.Repository,
	amounts map[uint]decimal.Decimal,
	services map[uint]*models.ConsultedService,
) error {
	for id, amount := range amounts {
		if err := tx.AdjustAmountPaid(ctx, id, amount.Neg()); err != nil {
			return err
		}
		if s, ok := services[id]; ok {
			s.AmountPaid = s.AmountPaid.Sub(amount)
			s.RefreshOutstanding()
		}
	}
	return nil
}
