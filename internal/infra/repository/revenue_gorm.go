package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/revenue"
)

type RevenueGormRepository struct {
	db *gorm.DB
}

func NewRevenueGormRepository(db *gorm.DB) *RevenueGormRepository {
	return &RevenueGormRepository{db: db}
}

type paymentRow struct {
	VoucherID     uint
	PaymentDate   time.Time
	Amount        decimal.Decimal
	PaymentMethod string
	CashierID     uint
	CashierName   string
	ClinicID      uint
	ClinicName    string
}

func (r *RevenueGormRepository) PaymentRows(
	ctx context.Context,
	clinicID uint,
	from time.Time,
	to time.Time,
) ([]domain.Row, error) {

	var rows []paymentRow
	if err := r.db.WithContext(ctx).
		Table("payment_voucher_details AS d").
		Select(`
			v.id AS voucher_id,
			v.payment_date,
			d.amount,
			d.payment_method,
			v.cashier_id,
			COALESCE(e.full_name, '') AS cashier_name,
			v.clinic_id,
			COALESCE(c.name, '') AS clinic_name`).
		Joins("JOIN payment_vouchers v ON v.id = d.payment_voucher_id").
		Joins("LEFT JOIN employees e ON e.id = v.cashier_id").
		Joins("LEFT JOIN clinics c ON c.id = v.clinic_id").
		Where("v.clinic_id = ? AND v.payment_date >= ? AND v.payment_date < ?", clinicID, from, to).
		Order("v.payment_date ASC, d.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Row(row))
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*RevenueGormRepository)(nil)
