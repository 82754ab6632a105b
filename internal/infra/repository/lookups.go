package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func getCustomer(db *gorm.DB, clinicID, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := db.
		Where("id = ? AND clinic_id = ?", customerID, clinicID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func getEmployee(db *gorm.DB, clinicID, employeeID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := db.
		Where("id = ? AND clinic_id = ?", employeeID, clinicID).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func getAppointment(db *gorm.DB, clinicID, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := db.
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func getConsultedService(db *gorm.DB, clinicID, serviceID uint) (*models.ConsultedService, error) {
	var s models.ConsultedService
	if err := db.
		Where("id = ? AND clinic_id = ?", serviceID, clinicID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
