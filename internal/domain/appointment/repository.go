package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ActiveDayConstraint is the partial unique index enforcing one non-cancelled
// appointment per customer per clinic day.
const ActiveDayConstraint = "ux_appointments_customer_day_active"

type ListFilter struct {
	ClinicID   uint
	Start      time.Time
	End        time.Time
	DentistID  uint
	CustomerID uint
}

type Repository interface {
	// -------- Lookups --------
	GetCustomer(
		ctx context.Context,
		clinicID uint,
		customerID uint,
	) (*models.Customer, error)

	GetEmployee(
		ctx context.Context,
		clinicID uint,
		employeeID uint,
	) (*models.Employee, error)

	// -------- Appointment (create / same-day guard) --------

	// FindActiveForDay returns the customer's non-cancelled appointment in
	// [start, end), ignoring excludeID. It returns nil, nil when none exists.
	FindActiveForDay(
		ctx context.Context,
		customerID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID uint,
	) error

	CountConsultedServices(
		ctx context.Context,
		appointmentID uint,
	) (int64, error)

	// -------- Listing --------
	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)
}
