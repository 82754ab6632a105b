package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC     *ucAppointment.CreateAppointment
	updateUC     *ucAppointment.UpdateAppointment
	transitionUC *ucAppointment.TransitionAppointment
	deleteUC     *ucAppointment.DeleteAppointment
	checkInUC    *ucAppointment.CustomerCheckIn
	getUC        *ucAppointment.GetAppointment
	listByDateUC *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	transitionUC *ucAppointment.TransitionAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	checkInUC *ucAppointment.CustomerCheckIn,
	getUC *ucAppointment.GetAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		updateUC:     updateUC,
		transitionUC: transitionUC,
		deleteUC:     deleteUC,
		checkInUC:    checkInUC,
		getUC:        getUC,
		listByDateUC: listByDateUC,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerID          uint   `json:"customerId" binding:"required"`
	PrimaryDentistID    uint   `json:"primaryDentistId" binding:"required"`
	SecondaryDentistID  *uint  `json:"secondaryDentistId"`
	AppointmentDateTime string `json:"appointmentDateTime" binding:"required"`
	Duration            int    `json:"duration"`
	Status              string `json:"status"`
	Notes               string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PrimaryDentistID      *uint   `json:"primaryDentistId"`
	SecondaryDentistID    *uint   `json:"secondaryDentistId"`
	ClearSecondaryDentist bool    `json:"clearSecondaryDentist"`
	AppointmentDateTime   *string `json:"appointmentDateTime"`
	Duration              *int    `json:"duration"`
	Notes                 *string `json:"notes"`
	Status                *string `json:"status"`
}

type CustomerCheckInRequest struct {
	PrimaryDentistID uint   `json:"primaryDentistId"`
	Notes            string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	at, err := parseDateTime(req.AppointmentDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Ngày giờ hẹn không hợp lệ.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:               middleware.Actor(c),
		CustomerID:          req.CustomerID,
		PrimaryDentistID:    req.PrimaryDentistID,
		SecondaryDentistID:  req.SecondaryDentistID,
		AppointmentDateTime: at,
		Duration:            req.Duration,
		Status:              req.Status,
		Notes:               req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	at, err := parseOptionalDateTime(req.AppointmentDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Ngày giờ hẹn không hợp lệ.")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Actor:                 middleware.Actor(c),
		AppointmentID:         id,
		PrimaryDentistID:      req.PrimaryDentistID,
		SecondaryDentistID:    req.SecondaryDentistID,
		ClearSecondaryDentist: req.ClearSecondaryDentist,
		AppointmentDateTime:   at,
		Duration:              req.Duration,
		Notes:                 req.Notes,
		Status:                req.Status,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// LIFECYCLE ACTIONS
// ======================================================

// Transition handles PATCH /appointments/:id/:action.
func (h *AppointmentHandler) Transition(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	action, err := ucAppointment.ParseAction(c.Param("action"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, message, err := h.transitionUC.Execute(c.Request.Context(), middleware.Actor(c), id, action)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.WithMessage(c, http.StatusOK, message, ap)
}

// CheckIn handles POST /customers/:id/checkin. The body is optional and only
// needed when the customer walks in without an appointment.
func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CustomerCheckInRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	res, err := h.checkInUC.Execute(c.Request.Context(), ucAppointment.CustomerCheckInInput{
		Actor:            middleware.Actor(c),
		CustomerID:       customerID,
		PrimaryDentistID: req.PrimaryDentistID,
		Notes:            req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	httpresp.WithMessage(c, status, res.Message, res.Appointment)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) listQuery(c *gin.Context) (ucAppointment.ListQuery, bool) {
	dentistID, ok := uintQuery(c, "dentistId")
	if !ok {
		return ucAppointment.ListQuery{}, false
	}
	customerID, ok := uintQuery(c, "customerId")
	if !ok {
		return ucAppointment.ListQuery{}, false
	}
	return ucAppointment.ListQuery{DentistID: dentistID, CustomerID: customerID}, true
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date, ok := dayQuery(c, "date")
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	items, err := h.listByDateUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, q, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Vui lòng chọn năm và tháng.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Năm không hợp lệ.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Tháng không hợp lệ.")
		return
	}

	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, q, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if items == nil {
		items = []dto.AppointmentListDTO{}
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
		"total":        len(items),
	})
}
