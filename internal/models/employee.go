package models

import "time"

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
)

// Employee is a clinic staff member. Dentists are employees with RoleDoctor.
type Employee struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ClinicID uint    `gorm:"index" json:"clinicId"`
	Clinic   *Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic,omitempty"`

	FullName     string `gorm:"size:100;not null" json:"fullName"`
	Email        string `gorm:"size:100;uniqueIndex:idx_employees_email;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'receptionist'" json:"role"`
	Title        string `gorm:"size:50" json:"title"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
