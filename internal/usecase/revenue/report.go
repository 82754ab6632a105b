package revenue

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/revenue"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const maxRangeDays = 366

type ReportInput struct {
	ClinicID uint
	From     time.Time
	To       time.Time
	GroupBy  string
}

type GetRevenueReport struct {
	repo domain.Repository
}

func NewGetRevenueReport(repo domain.Repository) *GetRevenueReport {
	return &GetRevenueReport{repo: repo}
}

// Execute reports the clinic days From..To, both inclusive.
func (uc *GetRevenueReport) Execute(
	ctx context.Context,
	in ReportInput,
) (domain.Report, error) {

	groupBy, err := domain.ParseGroupBy(in.GroupBy)
	if err != nil {
		return domain.Report{}, err
	}

	start, _ := timezone.DayBounds(in.From)
	last, end := timezone.DayBounds(in.To)

	if last.Before(start) {
		return domain.Report{}, httperr.ErrBadRequest("invalid_range", "Ngày bắt đầu phải trước ngày kết thúc.")
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return domain.Report{}, httperr.ErrBadRequest("range_too_large", "Khoảng thời gian báo cáo tối đa là một năm.")
	}

	rows, err := uc.repo.PaymentRows(ctx, in.ClinicID, start, end)
	if err != nil {
		return domain.Report{}, err
	}

	return domain.Aggregate(groupBy, start, last, rows), nil
}
