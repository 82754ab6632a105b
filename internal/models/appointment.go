package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint `gorm:"index" json:"clinicId"`

	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	PrimaryDentistID uint      `gorm:"not null" json:"primaryDentistId"`
	PrimaryDentist   *Employee `gorm:"foreignKey:PrimaryDentistID" json:"primaryDentist,omitempty"`

	SecondaryDentistID *uint     `json:"secondaryDentistId"`
	SecondaryDentist   *Employee `gorm:"foreignKey:SecondaryDentistID" json:"secondaryDentist,omitempty"`

	AppointmentDateTime time.Time `gorm:"not null;index" json:"appointmentDateTime"`
	// AppointmentDay is the clinic calendar day of AppointmentDateTime and backs
	// the one-active-appointment-per-day unique index.
	AppointmentDay string `gorm:"size:10;not null" json:"appointmentDay"`
	Duration       int    `gorm:"default:30" json:"duration"`

	Status string `gorm:"size:30;not null" json:"status"`

	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Notes        string     `gorm:"type:text" json:"notes"`

	CreatedByID *uint     `json:"createdById"`
	UpdatedByID *uint     `json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.AppointmentDay = timezone.DayKey(a.AppointmentDateTime)
	return nil
}

func (a *Appointment) EndTime() time.Time {
	return a.AppointmentDateTime.Add(time.Duration(a.Duration) * time.Minute)
}
