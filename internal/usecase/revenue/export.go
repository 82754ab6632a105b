package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/revenue"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Archiver stores a copy of an exported report.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type ExportInput struct {
	ReportInput
	Archive bool
}

type Export struct {
	FileName  string
	Content   []byte
	ObjectKey string
}

type ExportRevenueReport struct {
	report   *GetRevenueReport
	archiver Archiver
	now      func() time.Time
}

// NewExportRevenueReport builds the exporter. archiver may be nil when no
// bucket is configured.
func NewExportRevenueReport(report *GetRevenueReport, archiver Archiver) *ExportRevenueReport {
	return &ExportRevenueReport{
		report:   report,
		archiver: archiver,
		now:      timezone.Now,
	}
}

func (uc *ExportRevenueReport) Execute(
	ctx context.Context,
	in ExportInput,
) (*Export, error) {

	if in.Archive && uc.archiver == nil {
		return nil, httperr.ErrBadRequest("archive_disabled", "Chưa cấu hình lưu trữ báo cáo.")
	}

	report, err := uc.report.Execute(ctx, in.ReportInput)
	if err != nil {
		return nil, err
	}

	content, err := renderXLSX(report)
	if err != nil {
		return nil, err
	}

	out := &Export{
		FileName: fmt.Sprintf(
			"doanh_thu_%s_%s_%s.xlsx",
			report.From, report.To, uc.now().Format("20060102_150405"),
		),
		Content: content,
	}

	if in.Archive {
		key := fmt.Sprintf(
			"reports/revenue/%d/%s/%s.xlsx",
			in.ClinicID, uc.now().Format("2006/01"), uuid.NewString(),
		)
		if err := uc.archiver.Put(ctx, key, content, XLSXContentType); err != nil {
			return nil, fmt.Errorf("archive revenue report: %w", err)
		}
		out.ObjectKey = key
	}

	return out, nil
}

var groupHeaders = map[domain.GroupBy]string{
	domain.GroupByDay:      "Ngày",
	domain.GroupByEmployee: "Nhân viên thu",
	domain.GroupByClinic:   "Phòng khám",
	domain.GroupByMethod:   "Phương thức",
}

func renderXLSX(r domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Doanh thu"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Báo cáo doanh thu %s → %s", r.From, r.To))

	headers := []string{groupHeaders[r.GroupBy], "Số phiếu", "Tiền mặt", "Thẻ", "Chuyển khoản", "Khác", "Tổng"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
	}

	write := func(row int, b domain.Bucket) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.Label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Count)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.Cash.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.Card.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), b.Transfer.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), b.Other.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), b.Total.InexactFloat64())
	}

	row := 4
	for _, b := range r.Buckets {
		write(row, b)
		row++
	}
	write(row, r.Summary)

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "G", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
