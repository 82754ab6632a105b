package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucBilling "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/billing"
)

type ConsultedServiceHandler struct {
	createUC  *ucBilling.CreateConsultedService
	updateUC  *ucBilling.UpdateConsultedService
	confirmUC *ucBilling.ConfirmConsultedService
	deleteUC  *ucBilling.DeleteConsultedService
	listUC    *ucBilling.ListConsultedServices
	getUC     *ucBilling.GetConsultedService
}

func NewConsultedServiceHandler(
	createUC *ucBilling.CreateConsultedService,
	updateUC *ucBilling.UpdateConsultedService,
	confirmUC *ucBilling.ConfirmConsultedService,
	deleteUC *ucBilling.DeleteConsultedService,
	listUC *ucBilling.ListConsultedServices,
	getUC *ucBilling.GetConsultedService,
) *ConsultedServiceHandler {
	return &ConsultedServiceHandler{
		createUC:  createUC,
		updateUC:  updateUC,
		confirmUC: confirmUC,
		deleteUC:  deleteUC,
		listUC:    listUC,
		getUC:     getUC,
	}
}

// --------- Requests ---------

type CreateConsultedServiceRequest struct {
	CustomerID         uint             `json:"customerId" binding:"required"`
	DentalServiceID    uint             `json:"dentalServiceId" binding:"required"`
	PreferentialPrice  *decimal.Decimal `json:"preferentialPrice"`
	Quantity           int              `json:"quantity" binding:"min=0"`
	ConsultingDoctorID *uint            `json:"consultingDoctorId"`
	TreatingDoctorID   *uint            `json:"treatingDoctorId"`
	ToothPositions     []string         `json:"toothPositions"`
	Notes              string           `json:"notes"`
}

type UpdateConsultedServiceRequest struct {
	PreferentialPrice  *decimal.Decimal `json:"preferentialPrice"`
	Quantity           *int             `json:"quantity"`
	ConsultingDoctorID *uint            `json:"consultingDoctorId"`
	TreatingDoctorID   *uint            `json:"treatingDoctorId"`
	ToothPositions     []string         `json:"toothPositions"`
	Notes              *string          `json:"notes"`
}

// --------- Handlers ---------

func (h *ConsultedServiceHandler) Create(c *gin.Context) {
	var req CreateConsultedServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.createUC.Execute(c.Request.Context(), ucBilling.CreateConsultedServiceInput{
		Actor:              middleware.Actor(c),
		CustomerID:         req.CustomerID,
		DentalServiceID:    req.DentalServiceID,
		PreferentialPrice:  req.PreferentialPrice,
		Quantity:           req.Quantity,
		ConsultingDoctorID: req.ConsultingDoctorID,
		TreatingDoctorID:   req.TreatingDoctorID,
		ToothPositions:     req.ToothPositions,
		Notes:              req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ConsultedServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateConsultedServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.updateUC.Execute(c.Request.Context(), ucBilling.UpdateConsultedServiceInput{
		Actor:              middleware.Actor(c),
		ServiceID:          id,
		PreferentialPrice:  req.PreferentialPrice,
		Quantity:           req.Quantity,
		ConsultingDoctorID: req.ConsultingDoctorID,
		TreatingDoctorID:   req.TreatingDoctorID,
		ToothPositions:     req.ToothPositions,
		Notes:              req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ConsultedServiceHandler) Confirm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	s, err := h.confirmUC.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.WithMessage(c, http.StatusOK, "Đã chốt dịch vụ.", s)
}

func (h *ConsultedServiceHandler) Delete(c *gin.Context) {
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

func (h *ConsultedServiceHandler) List(c *gin.Context) {
	customerID, ok := uintQuery(c, "customerId")
	if !ok {
		return
	}

	items, err := h.listUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, customerID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *ConsultedServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	s, err := h.getUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}
