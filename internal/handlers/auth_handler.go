package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	emailDomain func(string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:          db,
		config:      cfg,
		emailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	ClinicCode    string `json:"clinicCode" binding:"required,max=20"`
	ClinicName    string `json:"clinicName" binding:"required"`
	ClinicPhone   string `json:"clinicPhone"`
	ClinicAddress string `json:"clinicAddress"`

	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register bootstraps a clinic together with its first admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Tên miền email không hợp lệ.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Không thể xử lý mật khẩu.")
		return
	}

	clinic := models.Clinic{
		Code:     strings.ToUpper(strings.TrimSpace(req.ClinicCode)),
		Name:     strings.TrimSpace(req.ClinicName),
		Phone:    req.ClinicPhone,
		Address:  req.ClinicAddress,
		Timezone: h.config.Timezone,
	}
	if !timezone.IsValid(clinic.Timezone) {
		clinic.Timezone = timezone.DefaultTimezone
	}

	var admin models.Employee
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clinic).Error; err != nil {
			return err
		}

		admin = models.Employee{
			ClinicID:     clinic.ID,
			FullName:     strings.TrimSpace(req.FullName),
			Email:        email,
			PasswordHash: string(hashed),
			Phone:        req.Phone,
			Role:         models.RoleAdmin,
			Active:       true,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := h.generateToken(&admin)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Không thể tạo phiên đăng nhập.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"employee": employeeView(&admin),
		"clinic":   clinic,
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var emp models.Employee
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		Where("email = ?", email).
		First(&emp).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Email hoặc mật khẩu không đúng.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email hoặc mật khẩu không đúng.")
		return
	}
	if !emp.Active {
		httperr.Forbidden(c, "employee_inactive", "Tài khoản đã bị khóa.")
		return
	}

	token, err := h.generateToken(&emp)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Không thể tạo phiên đăng nhập.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee": employeeView(&emp),
		"clinic":   emp.Clinic,
		"token":    token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(emp *models.Employee) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      emp.ID,
		"clinicId": emp.ClinicID,
		"role":     emp.Role,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func employeeView(e *models.Employee) gin.H {
	return gin.H{
		"id":       e.ID,
		"fullName": e.FullName,
		"email":    e.Email,
		"phone":    e.Phone,
		"role":     e.Role,
		"title":    e.Title,
		"clinicId": e.ClinicID,
	}
}
