package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type DentalServiceHandler struct {
	catalog billing.Catalog
}

func NewDentalServiceHandler(catalog billing.Catalog) *DentalServiceHandler {
	return &DentalServiceHandler{catalog: catalog}
}

// --------- Requests ---------

type CreateDentalServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type UpdateDentalServiceRequest struct {
	Name        *string          `json:"name,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *DentalServiceHandler) List(c *gin.Context) {
	all, err := h.catalog.ListDentalServices(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	activeStr := strings.TrimSpace(c.Query("active"))

	out := make([]models.DentalService, 0, len(all))
	for _, s := range all {
		if activeStr == "true" && !s.Active || activeStr == "false" && s.Active {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(s.Name), query) {
			continue
		}
		out = append(out, s)
	}

	httpresp.List(c, out)
}

func (h *DentalServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	s, err := h.catalog.GetDentalService(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, notFoundAs(err, "dental_service_not_found", "Không tìm thấy dịch vụ."))
		return
	}
	httpresp.OK(c, s)
}

func (h *DentalServiceHandler) Create(c *gin.Context) {
	var req CreateDentalServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPrice(c, req.Price) {
		return
	}

	s := models.DentalService{
		Name:        strings.TrimSpace(req.Name),
		Unit:        req.Unit,
		Price:       req.Price,
		Description: req.Description,
		Active:      true,
	}

	if err := h.catalog.SaveDentalService(c.Request.Context(), &s); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *DentalServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDentalServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.GetDentalService(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, notFoundAs(err, "dental_service_not_found", "Không tìm thấy dịch vụ."))
		return
	}

	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		s.Unit = *req.Unit
	}
	if req.Price != nil {
		if !validPrice(c, *req.Price) {
			return
		}
		s.Price = *req.Price
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Active != nil {
		s.Active = *req.Active
	}

	if err := h.catalog.SaveDentalService(c.Request.Context(), s); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func validPrice(c *gin.Context, p decimal.Decimal) bool {
	switch {
	case p.IsNegative():
		httperr.BadRequest(c, "invalid_price", "Đơn giá không được âm.")
		return false
	case !billing.IsMoney(p):
		httperr.BadRequest(c, "invalid_price", "Đơn giá tối đa 2 chữ số thập phân.")
		return false
	}
	return true
}
