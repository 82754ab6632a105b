package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

// The clinic code is fixed once vouchers exist, so it is not editable here.
type UpdateClinicRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *ClinicHandler) load(c *gin.Context) (*models.Clinic, bool) {
	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).
		First(&clinic, middleware.Actor(c).ClinicID).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "clinic_not_found", "Không tìm thấy phòng khám."))
		return nil, false
	}
	return &clinic, true
}

func (h *ClinicHandler) Get(c *gin.Context) {
	clinic, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) Update(c *gin.Context) {
	var req UpdateClinicRequest
	if !bindJSON(c, &req) {
		return
	}

	clinic, ok := h.load(c)
	if !ok {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "name_required", "Tên phòng khám không được để trống.")
			return
		}
		clinic.Name = name
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Múi giờ không hợp lệ.")
			return
		}
		clinic.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(clinic).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, clinic)
}
