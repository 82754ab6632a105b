package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type BillingGormRepository struct {
	db *gorm.DB
}

func NewBillingGormRepository(db *gorm.DB) *BillingGormRepository {
	return &BillingGormRepository{db: db}
}

func (r *BillingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BillingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *BillingGormRepository) GetClinic(ctx context.Context, clinicID uint) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, clinicID).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *BillingGormRepository) GetCustomer(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) (*models.Customer, error) {
	return getCustomer(r.db.WithContext(ctx), clinicID, customerID)
}

func (r *BillingGormRepository) FindCheckedInToday(
	ctx context.Context,
	customerID uint,
	start time.Time,
	end time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"customer_id = ? AND check_in_time IS NOT NULL AND appointment_date_time >= ? AND appointment_date_time < ?",
			customerID, start, end,
		).
		Order("check_in_time DESC").
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Consulted services
// --------------------------------------------------

func (r *BillingGormRepository) CreateConsultedService(
	ctx context.Context,
	s *models.ConsultedService,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *BillingGormRepository) GetConsultedService(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.ConsultedService, error) {
	return getConsultedService(r.db.WithContext(ctx), clinicID, id)
}

// UpdateConsultedService never writes amount_paid; only AdjustAmountPaid does.
func (r *BillingGormRepository) UpdateConsultedService(
	ctx context.Context,
	s *models.ConsultedService,
) error {
	return r.db.WithContext(ctx).
		Model(s).
		Select(
			"preferential_price", "quantity", "final_price", "debt",
			"service_status", "service_confirm_date",
			"consulting_doctor_id", "treating_doctor_id", "tooth_positions",
			"notes", "updated_by_id", "updated_at",
		).
		Updates(s).Error
}

func (r *BillingGormRepository) DeleteConsultedService(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ConsultedService{}, id).Error
}

func (r *BillingGormRepository) ListConsultedServices(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) ([]models.ConsultedService, error) {

	q := r.db.WithContext(ctx).Where("clinic_id = ?", clinicID)
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}

	var out []models.ConsultedService
	if err := q.Order("consultation_date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BillingGormRepository) LockConsultedServices(
	ctx context.Context,
	clinicID uint,
	ids []uint,
) ([]models.ConsultedService, error) {

	if len(ids) == 0 {
		return []models.ConsultedService{}, nil
	}

	var out []models.ConsultedService
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("clinic_id = ? AND id IN ?", clinicID, ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BillingGormRepository) AdjustAmountPaid(
	ctx context.Context,
	serviceID uint,
	delta decimal.Decimal,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.ConsultedService{}).
		Where("id = ?", serviceID).
		Update("amount_paid", gorm.Expr("amount_paid + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Vouchers
// --------------------------------------------------

func (r *BillingGormRepository) VoucherNumbersWithPrefix(
	ctx context.Context,
	prefix string,
) ([]string, error) {

	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentVoucher{}).
		Where("voucher_number LIKE ?", prefix+"-%").
		Pluck("voucher_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *BillingGormRepository) CreateVoucher(ctx context.Context, v *models.PaymentVoucher) error {
	return r.db.WithContext(ctx).Omit("Customer", "Cashier").Create(v).Error
}

func (r *BillingGormRepository) GetVoucher(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.PaymentVoucher, error) {

	var v models.PaymentVoucher
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Cashier").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Details.ConsultedService").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *BillingGormRepository) LockVoucher(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.PaymentVoucher, error) {

	var v models.PaymentVoucher
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&v).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("payment_voucher_id = ?", v.ID).
		Order("id ASC").
		Find(&v.Details).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *BillingGormRepository) UpdateVoucher(ctx context.Context, v *models.PaymentVoucher) error {
	return r.db.WithContext(ctx).
		Model(v).
		Select("payment_date", "total_amount", "notes", "updated_by_id", "updated_at").
		Updates(v).Error
}

func (r *BillingGormRepository) DeleteVoucher(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PaymentVoucher{}, id).Error
}

func (r *BillingGormRepository) DeleteVoucherDetails(ctx context.Context, voucherID uint) error {
	return r.db.WithContext(ctx).
		Where("payment_voucher_id = ?", voucherID).
		Delete(&models.PaymentVoucherDetail{}).Error
}

func (r *BillingGormRepository) CreateVoucherDetails(
	ctx context.Context,
	details []models.PaymentVoucherDetail,
) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("ConsultedService").Create(&details).Error
}

func (r *BillingGormRepository) ListVouchers(
	ctx context.Context,
	filter domain.VoucherFilter,
) ([]models.PaymentVoucher, int64, error) {

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.PaymentVoucher{}).
			Where("clinic_id = ?", filter.ClinicID)

		if filter.CustomerID != 0 {
			q = q.Where("customer_id = ?", filter.CustomerID)
		}
		if filter.From != nil {
			q = q.Where("payment_date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("payment_date < ?", *filter.To)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := base().
		Preload("Customer").
		Preload("Details").
		Order("payment_date DESC, id DESC")
	if filter.Limit > 0 {
		list = list.Offset(filter.Offset).Limit(filter.Limit)
	}

	var out []models.PaymentVoucher
	if err := list.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Compile-time check
var _ domain.Repository = (*BillingGormRepository)(nil)
