package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

type CustomerHandler struct {
	db          *gorm.DB
	audit       *audit.Dispatcher
	emailDomain func(string) bool
}

func NewCustomerHandler(db *gorm.DB, audit *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{
		db:          db,
		audit:       audit,
		emailDomain: validators.IsEmailDomainValid,
	}
}

type CustomerRequest struct {
	CustomerCode string `json:"customerCode" binding:"max=20"`
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	DateOfBirth  string `json:"dateOfBirth"`
	Gender       string `json:"gender"`
	Address      string `json:"address"`
	Source       string `json:"source"`
}

func newCustomerCode() string {
	return "KH" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// apply copies the request onto cust, writing 400 on invalid input.
func (h *CustomerHandler) apply(c *gin.Context, req CustomerRequest, cust *models.Customer) bool {
	cust.FullName = strings.TrimSpace(req.FullName)
	cust.Phone = strings.TrimSpace(req.Phone)
	cust.Email = strings.ToLower(strings.TrimSpace(req.Email))
	cust.Gender = req.Gender
	cust.Address = req.Address
	cust.Source = req.Source

	if cust.Email != "" && !h.emailDomain(cust.Email) {
		httperr.BadRequest(c, "invalid_email_domain", "Tên miền email không hợp lệ.")
		return false
	}

	cust.DateOfBirth = nil
	if dob := strings.TrimSpace(req.DateOfBirth); dob != "" {
		d, err := timezone.ParseDay(dob)
		if err != nil || d.After(time.Now()) {
			httperr.BadRequest(c, "invalid_date_of_birth", "Ngày sinh không hợp lệ.")
			return false
		}
		cust.DateOfBirth = &d
	}
	return true
}

// ======================================================
// CREATE
// ======================================================

func (h *CustomerHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	cust := models.Customer{
		ClinicID:     actor.ClinicID,
		CustomerCode: strings.ToUpper(strings.TrimSpace(req.CustomerCode)),
		CreatedByID:  actor.Ref(),
		UpdatedByID:  actor.Ref(),
	}
	if cust.CustomerCode == "" {
		cust.CustomerCode = newCustomerCode()
	}
	if !h.apply(c, req, &cust) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cust).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.dispatch(actor.ClinicID, actor.Ref(), "customer_created", cust.ID)
	httpresp.Created(c, cust)
}

// ======================================================
// UPDATE
// ======================================================

func (h *CustomerHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	cust, ok := h.load(c, actor.ClinicID, id)
	if !ok {
		return
	}
	if !h.apply(c, req, cust) {
		return
	}
	cust.UpdatedByID = actor.Ref()

	if err := h.db.WithContext(c.Request.Context()).Save(cust).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.dispatch(actor.ClinicID, actor.Ref(), "customer_updated", cust.ID)
	httpresp.OK(c, cust)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	clinicID := middleware.Actor(c).ClinicID
	page := httpresp.PageFromQuery(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("clinic_id = ?", clinicID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR phone LIKE ? OR LOWER(customer_code) LIKE ?",
			like, like, like,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var customers []models.Customer
	if err := q.
		Scopes(page.Scope).
		Order("created_at DESC").
		Find(&customers).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, page, customers, total)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	cust, ok := h.load(c, middleware.Actor(c).ClinicID, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) load(c *gin.Context, clinicID, id uint) (*models.Customer, bool) {
	var cust models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&cust).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "customer_not_found", "Không tìm thấy khách hàng."))
		return nil, false
	}
	return &cust, true
}

func (h *CustomerHandler) dispatch(clinicID uint, userID *uint, action string, id uint) {
	if h.audit == nil {
		return
	}
	h.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   userID,
		Action:   action,
		Entity:   "customer",
		EntityID: &id,
	})
}
