package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.Actor(c)

	var emp models.Employee
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		Where("id = ? AND clinic_id = ?", actor.ID, actor.ClinicID).
		First(&emp).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "employee_not_found", "Không tìm thấy nhân viên."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee": employeeView(&emp),
		"clinic":   emp.Clinic,
	})
}
