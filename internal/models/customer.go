package models

import "time"

type Customer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ClinicID     uint   `gorm:"uniqueIndex:idx_customers_clinic_phone,priority:1" json:"clinicId"`
	CustomerCode string `gorm:"size:20;uniqueIndex:idx_customers_customer_code" json:"customerCode"`

	FullName    string     `gorm:"size:100;not null" json:"fullName"`
	Phone       string     `gorm:"size:20;not null;uniqueIndex:idx_customers_clinic_phone,priority:2" json:"phone"`
	Email       string     `gorm:"size:100" json:"email"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `gorm:"size:10" json:"gender"`
	Address     string     `gorm:"size:255" json:"address"`
	Source      string     `gorm:"size:50" json:"source"`

	CreatedByID *uint     `json:"createdById"`
	UpdatedByID *uint     `json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
