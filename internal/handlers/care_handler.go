package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucCare "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/care"
)

type CareHandler struct {
	createLogUC  *ucCare.CreateTreatmentLog
	listLogsUC   *ucCare.ListTreatmentLogs
	createCareUC *ucCare.CreateTreatmentCare
	listCaresUC  *ucCare.ListTreatmentCares
	deleteCareUC *ucCare.DeleteTreatmentCare
}

func NewCareHandler(
	createLogUC *ucCare.CreateTreatmentLog,
	listLogsUC *ucCare.ListTreatmentLogs,
	createCareUC *ucCare.CreateTreatmentCare,
	listCaresUC *ucCare.ListTreatmentCares,
	deleteCareUC *ucCare.DeleteTreatmentCare,
) *CareHandler {
	return &CareHandler{
		createLogUC:  createLogUC,
		listLogsUC:   listLogsUC,
		createCareUC: createCareUC,
		listCaresUC:  listCaresUC,
		deleteCareUC: deleteCareUC,
	}
}

type CreateTreatmentLogRequest struct {
	AppointmentID      uint   `json:"appointmentId" binding:"required"`
	ConsultedServiceID uint   `json:"consultedServiceId" binding:"required"`
	DentistID          uint   `json:"dentistId" binding:"required"`
	AssistantID        *uint  `json:"assistantId"`
	Content            string `json:"content"`
	NextStep           string `json:"nextStep"`
}

type CreateTreatmentCareRequest struct {
	CustomerID    uint    `json:"customerId" binding:"required"`
	TreatmentDate string  `json:"treatmentDate" binding:"required"`
	CareAt        *string `json:"careAt"`
	CareContent   string  `json:"careContent"`
	CareStatus    string  `json:"careStatus"`
}

// ======================================================
// TREATMENT LOGS
// ======================================================

func (h *CareHandler) CreateLog(c *gin.Context) {
	var req CreateTreatmentLogRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.createLogUC.Execute(c.Request.Context(), ucCare.CreateTreatmentLogInput{
		Actor:              middleware.Actor(c),
		AppointmentID:      req.AppointmentID,
		ConsultedServiceID: req.ConsultedServiceID,
		DentistID:          req.DentistID,
		AssistantID:        req.AssistantID,
		Content:            req.Content,
		NextStep:           req.NextStep,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, entry)
}

func (h *CareHandler) ListLogs(c *gin.Context) {
	customerID, ok := uintQuery(c, "customerId")
	if !ok {
		return
	}

	items, err := h.listLogsUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, customerID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// TREATMENT CARES
// ======================================================

func (h *CareHandler) CreateCare(c *gin.Context) {
	var req CreateTreatmentCareRequest
	if !bindJSON(c, &req) {
		return
	}

	careAt, err := parseOptionalDateTime(req.CareAt)
	if err != nil {
		httperr.BadRequest(c, "invalid_care_at", "Thời điểm chăm sóc không hợp lệ.")
		return
	}

	care, err := h.createCareUC.Execute(c.Request.Context(), ucCare.CreateTreatmentCareInput{
		Actor:         middleware.Actor(c),
		CustomerID:    req.CustomerID,
		TreatmentDate: req.TreatmentDate,
		CareAt:        careAt,
		CareContent:   req.CareContent,
		CareStatus:    req.CareStatus,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, care)
}

// ListCares defaults to the last seven clinic days.
func (h *CareHandler) ListCares(c *gin.Context) {
	to, ok := dayQuery(c, "to")
	if !ok {
		return
	}

	from := to.AddDate(0, 0, -6)
	if c.Query("from") != "" {
		if from, ok = dayQuery(c, "from"); !ok {
			return
		}
	}

	days, err := h.listCaresUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": timezone.DayKey(from),
		"to":   timezone.DayKey(to),
		"days": days,
	})
}

func (h *CareHandler) DeleteCare(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteCareUC.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
