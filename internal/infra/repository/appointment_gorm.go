package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) (*models.Customer, error) {
	return getCustomer(r.db.WithContext(ctx), clinicID, customerID)
}

func (r *AppointmentGormRepository) GetEmployee(
	ctx context.Context,
	clinicID uint,
	employeeID uint,
) (*models.Employee, error) {
	return getEmployee(r.db.WithContext(ctx), clinicID, employeeID)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) FindActiveForDay(
	ctx context.Context,
	customerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"customer_id = ? AND status <> ? AND appointment_date_time >= ? AND appointment_date_time < ?",
			customerID,
			string(domain.StatusCancelled),
			start,
			end,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ap models.Appointment
	err := q.Order("appointment_date_time ASC").First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("PrimaryDentist").
		Preload("SecondaryDentist").
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit("Customer", "PrimaryDentist", "SecondaryDentist").
		Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, appointmentID).Error
}

func (r *AppointmentGormRepository) CountConsultedServices(
	ctx context.Context,
	appointmentID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ConsultedService{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("PrimaryDentist").
		Where(
			"clinic_id = ? AND appointment_date_time >= ? AND appointment_date_time < ?",
			filter.ClinicID,
			filter.Start,
			filter.End,
		)

	if filter.DentistID != 0 {
		q = q.Where("primary_dentist_id = ? OR secondary_dentist_id = ?", filter.DentistID, filter.DentistID)
	}
	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	var apps []models.Appointment
	if err := q.Order("appointment_date_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
