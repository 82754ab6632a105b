package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucRevenue "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/revenue"
)

type ReportHandler struct {
	revenueUC *ucRevenue.GetRevenueReport
	exportUC  *ucRevenue.ExportRevenueReport
}

func NewReportHandler(
	revenueUC *ucRevenue.GetRevenueReport,
	exportUC *ucRevenue.ExportRevenueReport,
) *ReportHandler {
	return &ReportHandler{revenueUC: revenueUC, exportUC: exportUC}
}

// reportInput reads from/to/groupBy. Without a range it covers the current month.
func reportInput(c *gin.Context) (ucRevenue.ReportInput, bool) {
	now := timezone.Now()
	monthStart, _ := timezone.MonthBounds(now.Year(), now.Month())

	in := ucRevenue.ReportInput{
		ClinicID: middleware.Actor(c).ClinicID,
		From:     monthStart,
		To:       now,
		GroupBy:  c.DefaultQuery("groupBy", "day"),
	}

	for name, dst := range map[string]*time.Time{"from": &in.From, "to": &in.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		d, err := timezone.ParseDay(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
			return in, false
		}
		*dst = d
	}

	return in, true
}

func (h *ReportHandler) Revenue(c *gin.Context) {
	in, ok := reportInput(c)
	if !ok {
		return
	}

	report, err := h.revenueUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportRevenue streams the report as xlsx. With ?archive=true the file is
// also stored and its object key returned in X-Archive-Key.
func (h *ReportHandler) ExportRevenue(c *gin.Context) {
	in, ok := reportInput(c)
	if !ok {
		return
	}

	archive, _ := strconv.ParseBool(c.DefaultQuery("archive", "false"))

	out, err := h.exportUC.Execute(c.Request.Context(), ucRevenue.ExportInput{
		ReportInput: in,
		Archive:     archive,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if out.ObjectKey != "" {
		c.Header("X-Archive-Key", out.ObjectKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Data(http.StatusOK, ucRevenue.XLSXContentType, out.Content)
}
