package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ListQuery narrows a listing. Zero fields match everything.
type ListQuery struct {
	DentistID  uint
	CustomerID uint
}

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	clinicID uint,
	q ListQuery,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start, end := timezone.DayBounds(date)

	appointments, err := uc.repo.ListAppointments(ctx, domain.ListFilter{
		ClinicID:   clinicID,
		Start:      start,
		End:        end,
		DentistID:  q.DentistID,
		CustomerID: q.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}

	return out, nil
}
