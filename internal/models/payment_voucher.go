package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentVoucher struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	VoucherNumber string `gorm:"size:30;not null;uniqueIndex:idx_payment_vouchers_voucher_number" json:"voucherNumber"`
	ClinicID      uint   `gorm:"index" json:"clinicId"`

	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `json:"customer,omitempty"`

	PaymentDate time.Time       `gorm:"not null;index" json:"paymentDate"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalAmount"`
	Notes       string          `gorm:"type:text" json:"notes"`

	CashierID uint      `json:"cashierId"`
	Cashier   *Employee `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`

	Details []PaymentVoucherDetail `gorm:"foreignKey:PaymentVoucherID;constraint:OnDelete:CASCADE;" json:"details"`

	CreatedByID *uint     `json:"createdById"`
	UpdatedByID *uint     `json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PaymentVoucherDetail struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	PaymentVoucherID uint `gorm:"not null;index" json:"paymentVoucherId"`

	ConsultedServiceID uint              `gorm:"not null;index" json:"consultedServiceId"`
	ConsultedService   *ConsultedService `json:"consultedService,omitempty"`

	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:50;not null" json:"paymentMethod"`

	CreatedAt time.Time `json:"createdAt"`
}
