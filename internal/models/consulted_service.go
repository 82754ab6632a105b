package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ServiceStatusUnconfirmed = "Chưa chốt"
	ServiceStatusConfirmed   = "Đã chốt"
)

type ConsultedService struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinicId"`

	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `json:"customer,omitempty"`

	AppointmentID uint         `gorm:"not null;index" json:"appointmentId"`
	Appointment   *Appointment `gorm:"constraint:OnDelete:RESTRICT;" json:"appointment,omitempty"`

	DentalServiceID uint           `gorm:"not null" json:"dentalServiceId"`
	DentalService   *DentalService `json:"dentalService,omitempty"`

	ConsultedServiceName string          `gorm:"size:200;not null" json:"consultedServiceName"`
	ConsultedServiceUnit string          `gorm:"size:50" json:"consultedServiceUnit"`
	Price                decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	PreferentialPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"preferentialPrice"`
	Quantity             int             `gorm:"not null;default:1" json:"quantity"`
	FinalPrice           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"finalPrice"`
	AmountPaid           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"amountPaid"`
	Debt                 decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"debt"`
	Outstanding          decimal.Decimal `gorm:"-" json:"outstanding"`

	ServiceStatus      string     `gorm:"size:20;not null" json:"serviceStatus"`
	ServiceConfirmDate *time.Time `json:"serviceConfirmDate"`

	ConsultingDoctorID *uint                       `json:"consultingDoctorId"`
	TreatingDoctorID   *uint                       `json:"treatingDoctorId"`
	ToothPositions     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"toothPositions"`
	ConsultationDate   time.Time                   `json:"consultationDate"`
	Notes              string                      `gorm:"type:text" json:"notes"`

	CreatedByID *uint     `json:"createdById"`
	UpdatedByID *uint     `json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *ConsultedService) AfterFind(tx *gorm.DB) error {
	s.RefreshOutstanding()
	return nil
}

// RefreshOutstanding recomputes finalPrice − amountPaid.
func (s *ConsultedService) RefreshOutstanding() {
	s.Outstanding = s.FinalPrice.Sub(s.AmountPaid)
}
