package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID                  uint       `json:"id"`
	CustomerID          uint       `json:"customerId"`
	CustomerName        string     `json:"customerName"`
	CustomerPhone       string     `json:"customerPhone"`
	PrimaryDentistID    uint       `json:"primaryDentistId"`
	PrimaryDentistName  string     `json:"primaryDentistName"`
	SecondaryDentistID  *uint      `json:"secondaryDentistId"`
	AppointmentDateTime time.Time  `json:"appointmentDateTime"`
	EndTime             time.Time  `json:"endTime"`
	Duration            int        `json:"duration"`
	Status              string     `json:"status"`
	CheckInTime         *time.Time `json:"checkInTime"`
	CheckOutTime        *time.Time `json:"checkOutTime"`
	Notes               string     `json:"notes"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:                  ap.ID,
		CustomerID:          ap.CustomerID,
		PrimaryDentistID:    ap.PrimaryDentistID,
		SecondaryDentistID:  ap.SecondaryDentistID,
		AppointmentDateTime: ap.AppointmentDateTime,
		EndTime:             ap.EndTime(),
		Duration:            ap.Duration,
		Status:              ap.Status,
		CheckInTime:         ap.CheckInTime,
		CheckOutTime:        ap.CheckOutTime,
		Notes:               ap.Notes,
	}
	if ap.Customer != nil {
		out.CustomerName = ap.Customer.FullName
		out.CustomerPhone = ap.Customer.Phone
	}
	if ap.PrimaryDentist != nil {
		out.PrimaryDentistName = ap.PrimaryDentist.FullName
	}
	return out
}
