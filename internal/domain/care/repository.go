package care

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Repository interface {
	GetCustomer(ctx context.Context, clinicID uint, customerID uint) (*models.Customer, error)
	GetEmployee(ctx context.Context, clinicID uint, employeeID uint) (*models.Employee, error)
	GetAppointment(ctx context.Context, clinicID uint, appointmentID uint) (*models.Appointment, error)
	GetConsultedService(ctx context.Context, clinicID uint, serviceID uint) (*models.ConsultedService, error)

	// -------- Treatment logs --------
	CreateTreatmentLog(ctx context.Context, l *models.TreatmentLog) error
	ListTreatmentLogs(ctx context.Context, clinicID uint, customerID uint) ([]models.TreatmentLog, error)

	// LogsForDay returns the customer's logs whose treatment date is day
	// (YYYY-MM-DD), oldest first.
	LogsForDay(ctx context.Context, clinicID uint, customerID uint, day string) ([]models.TreatmentLog, error)

	// -------- Treatment cares --------
	CreateTreatmentCare(ctx context.Context, c *models.TreatmentCare) error
	GetTreatmentCare(ctx context.Context, clinicID uint, id uint) (*models.TreatmentCare, error)
	DeleteTreatmentCare(ctx context.Context, id uint) error
	ListTreatmentCares(ctx context.Context, clinicID uint, from time.Time, to time.Time) ([]models.TreatmentCare, error)
}
