package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CareStatusContacted   = "Đã liên hệ"
	CareStatusUnreachable = "Không liên lạc được"
	CareStatusCallBack    = "Hẹn gọi lại"
)

// TreatmentLog records the work done on a consulted service during a visit.
type TreatmentLog struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ClinicID   uint `gorm:"index" json:"clinicId"`
	CustomerID uint `gorm:"not null;index" json:"customerId"`

	AppointmentID      uint              `gorm:"not null;index" json:"appointmentId"`
	ConsultedServiceID uint              `gorm:"not null;index" json:"consultedServiceId"`
	ConsultedService   *ConsultedService `json:"consultedService,omitempty"`

	DentistID   uint  `gorm:"not null" json:"dentistId"`
	AssistantID *uint `json:"assistantId"`

	TreatmentDate string `gorm:"size:10;not null;index" json:"treatmentDate"`
	Content       string `gorm:"type:text;not null" json:"content"`
	NextStep      string `gorm:"type:text" json:"nextStep"`

	ServiceName string `gorm:"size:200" json:"serviceName"`
	DentistName string `gorm:"size:100" json:"dentistName"`

	CreatedByID *uint     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TreatmentCare is an aftercare contact. Service and doctor names are captured
// when the record is created and are not joined live.
type TreatmentCare struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClinicID   uint      `gorm:"index" json:"clinicId"`
	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `json:"customer,omitempty"`

	TreatmentDate string    `gorm:"size:10;not null;index" json:"treatmentDate"`
	CareAt        time.Time `gorm:"not null;index" json:"careAt"`
	CareContent   string    `gorm:"type:text;not null" json:"careContent"`
	CareStatus    string    `gorm:"size:30;not null" json:"careStatus"`

	TreatmentServiceNames datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"treatmentServiceNames"`
	TreatingDoctorNames   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"treatingDoctorNames"`

	CareStaffID uint      `gorm:"not null" json:"careStaffId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
