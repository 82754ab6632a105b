package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID := middleware.Actor(c).ClinicID
	page := httpresp.PageFromQuery(c)

	// --------------------------------------------------
	// Base query, always scoped to the clinic
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("clinic_id = ?", clinicID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if userID, ok := uintQuery(c, "userId"); !ok {
		return
	} else if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := timezone.ParseDay(fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := timezone.ParseDay(toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
			return
		}
		_, end := timezone.DayBounds(to)
		q = q.Where("created_at < ?", end)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Scopes(page.Scope).
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, page, logs, total)
}
