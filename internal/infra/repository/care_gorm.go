package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/care"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CareGormRepository struct {
	db *gorm.DB
}

func NewCareGormRepository(db *gorm.DB) *CareGormRepository {
	return &CareGormRepository{db: db}
}

func (r *CareGormRepository) GetCustomer(ctx context.Context, clinicID, customerID uint) (*models.Customer, error) {
	return getCustomer(r.db.WithContext(ctx), clinicID, customerID)
}

func (r *CareGormRepository) GetEmployee(ctx context.Context, clinicID, employeeID uint) (*models.Employee, error) {
	return getEmployee(r.db.WithContext(ctx), clinicID, employeeID)
}

func (r *CareGormRepository) GetAppointment(ctx context.Context, clinicID, appointmentID uint) (*models.Appointment, error) {
	return getAppointment(r.db.WithContext(ctx), clinicID, appointmentID)
}

func (r *CareGormRepository) GetConsultedService(ctx context.Context, clinicID, serviceID uint) (*models.ConsultedService, error) {
	return getConsultedService(r.db.WithContext(ctx), clinicID, serviceID)
}

// --------------------------------------------------
// Treatment logs
// --------------------------------------------------

func (r *CareGormRepository) CreateTreatmentLog(ctx context.Context, l *models.TreatmentLog) error {
	return r.db.WithContext(ctx).Omit("ConsultedService").Create(l).Error
}

func (r *CareGormRepository) ListTreatmentLogs(
	ctx context.Context,
	clinicID uint,
	customerID uint,
) ([]models.TreatmentLog, error) {

	var logs []models.TreatmentLog
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND customer_id = ?", clinicID, customerID).
		Order("treatment_date DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *CareGormRepository) LogsForDay(
	ctx context.Context,
	clinicID uint,
	customerID uint,
	day string,
) ([]models.TreatmentLog, error) {

	var logs []models.TreatmentLog
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND customer_id = ? AND treatment_date = ?", clinicID, customerID, day).
		Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// --------------------------------------------------
// Treatment cares
// --------------------------------------------------

func (r *CareGormRepository) CreateTreatmentCare(ctx context.Context, c *models.TreatmentCare) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(c).Error
}

func (r *CareGormRepository) GetTreatmentCare(ctx context.Context, clinicID, id uint) (*models.TreatmentCare, error) {
	var c models.TreatmentCare
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CareGormRepository) DeleteTreatmentCare(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TreatmentCare{}, id).Error
}

func (r *CareGormRepository) ListTreatmentCares(
	ctx context.Context,
	clinicID uint,
	from time.Time,
	to time.Time,
) ([]models.TreatmentCare, error) {

	var cares []models.TreatmentCare
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("clinic_id = ? AND care_at >= ? AND care_at < ?", clinicID, from, to).
		Order("care_at DESC").
		Find(&cares).Error; err != nil {
		return nil, err
	}
	return cares, nil
}

// Compile-time check
var _ domain.Repository = (*CareGormRepository)(nil)
