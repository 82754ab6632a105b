package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type VoucherFilter struct {
	ClinicID   uint
	CustomerID uint
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

type Repository interface {
	// Transaction runs fn against a repository bound to one store
	// transaction. Any error rolls every write back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Lookups --------
	GetClinic(ctx context.Context, clinicID uint) (*models.Clinic, error)
	GetCustomer(ctx context.Context, clinicID uint, customerID uint) (*models.Customer, error)

	// FindCheckedInToday returns the customer's appointment in [start, end)
	// that has a check-in time, or nil, nil.
	FindCheckedInToday(
		ctx context.Context,
		customerID uint,
		start time.Time,
		end time.Time,
	) (*models.Appointment, error)

	// -------- Consulted services --------
	CreateConsultedService(ctx context.Context, s *models.ConsultedService) error
	GetConsultedService(ctx context.Context, clinicID uint, id uint) (*models.ConsultedService, error)
	UpdateConsultedService(ctx context.Context, s *models.ConsultedService) error
	DeleteConsultedService(ctx context.Context, id uint) error
	ListConsultedServices(ctx context.Context, clinicID uint, customerID uint) ([]models.ConsultedService, error)

	// LockConsultedServices loads ids FOR UPDATE in ascending id order.
	LockConsultedServices(ctx context.Context, clinicID uint, ids []uint) ([]models.ConsultedService, error)

	// AdjustAmountPaid adds delta (possibly negative) to amount_paid.
	AdjustAmountPaid(ctx context.Context, serviceID uint, delta decimal.Decimal) error

	// -------- Vouchers --------

	// VoucherNumbersWithPrefix returns the numbers already issued under prefix.
	VoucherNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// CreateVoucher inserts the voucher together with its Details.
	CreateVoucher(ctx context.Context, v *models.PaymentVoucher) error
	GetVoucher(ctx context.Context, clinicID uint, id uint) (*models.PaymentVoucher, error)

	// LockVoucher loads the voucher FOR UPDATE with its details.
	LockVoucher(ctx context.Context, clinicID uint, id uint) (*models.PaymentVoucher, error)
	UpdateVoucher(ctx context.Context, v *models.PaymentVoucher) error
	DeleteVoucher(ctx context.Context, id uint) error
	DeleteVoucherDetails(ctx context.Context, voucherID uint) error
	CreateVoucherDetails(ctx context.Context, details []models.PaymentVoucherDetail) error
	ListVouchers(ctx context.Context, filter VoucherFilter) ([]models.PaymentVoucher, int64, error)
}

// Catalog is the dental-service price list consulted services snapshot from.
type Catalog interface {
	GetDentalService(ctx context.Context, id uint) (*models.DentalService, error)
	ListDentalServices(ctx context.Context) ([]models.DentalService, error)
	SaveDentalService(ctx context.Context, s *models.DentalService) error
}
