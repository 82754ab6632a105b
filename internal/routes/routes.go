package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucBilling "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/billing"
	ucCare "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/care"
	ucRevenue "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/revenue"
)

// Infra carries the optional process-wide collaborators built in main.
// Redis and Archiver may be nil.
type Infra struct {
	Audit    *audit.Dispatcher
	Redis    *redis.Client
	Archiver ucRevenue.Archiver
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(
		middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	billingRepo := infraRepo.NewBillingGormRepository(db)
	careRepo := infraRepo.NewCareGormRepository(db)
	revenueRepo := infraRepo.NewRevenueGormRepository(db)
	catalog := cache.NewCatalogCache(
		infraRepo.NewCatalogGormRepository(db),
		infra.Redis,
		cfg.CatalogCacheTTL,
	)

	auditDispatcher := infra.Audit

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	getRevenueUC := ucRevenue.NewGetRevenueReport(revenueRepo)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, auditDispatcher),
		ucAppointment.NewUpdateAppointment(appointmentRepo, auditDispatcher),
		ucAppointment.NewTransitionAppointment(appointmentRepo, auditDispatcher),
		ucAppointment.NewDeleteAppointment(appointmentRepo, auditDispatcher),
		ucAppointment.NewCustomerCheckIn(appointmentRepo, auditDispatcher),
		ucAppointment.NewGetAppointment(appointmentRepo),
		ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
	)

	consultedServiceHandler := handlers.NewConsultedServiceHandler(
		ucBilling.NewCreateConsultedService(billingRepo, catalog, auditDispatcher),
		ucBilling.NewUpdateConsultedService(billingRepo, auditDispatcher),
		ucBilling.NewConfirmConsultedService(billingRepo, auditDispatcher),
		ucBilling.NewDeleteConsultedService(billingRepo, auditDispatcher),
		ucBilling.NewListConsultedServices(billingRepo),
		ucBilling.NewGetConsultedService(billingRepo),
	)

	paymentVoucherHandler := handlers.NewPaymentVoucherHandler(
		ucBilling.NewCreatePaymentVoucher(billingRepo, auditDispatcher, cfg.VoucherNumberRetries),
		ucBilling.NewUpdatePaymentVoucher(billingRepo, auditDispatcher),
		ucBilling.NewDeletePaymentVoucher(billingRepo, auditDispatcher),
		ucBilling.NewListPaymentVouchers(billingRepo),
		ucBilling.NewGetPaymentVoucher(billingRepo),
	)

	careHandler := handlers.NewCareHandler(
		ucCare.NewCreateTreatmentLog(careRepo, auditDispatcher),
		ucCare.NewListTreatmentLogs(careRepo),
		ucCare.NewCreateTreatmentCare(careRepo, auditDispatcher),
		ucCare.NewListTreatmentCares(careRepo),
		ucCare.NewDeleteTreatmentCare(careRepo, auditDispatcher),
	)

	reportHandler := handlers.NewReportHandler(
		getRevenueUC,
		ucRevenue.NewExportRevenueReport(getRevenueUC, infra.Archiver),
	)

	// ======================================================
	// 🧩 HANDLERS (direct gorm)
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)
	customerHandler := handlers.NewCustomerHandler(db, auditDispatcher)
	dentalServiceHandler := handlers.NewDentalServiceHandler(catalog)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/clinic", clinicHandler.Get)
			secured.PATCH("/clinic", adminOnly, clinicHandler.Update)

			// ------------------------------
			// CUSTOMERS
			// ------------------------------
			secured.POST("/customers", customerHandler.Create)
			secured.GET("/customers", customerHandler.List)
			secured.GET("/customers/:id", customerHandler.Get)
			secured.PUT("/customers/:id", customerHandler.Update)
			secured.POST("/customers/:id/checkin", appointmentHandler.CheckIn)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/dental-services", dentalServiceHandler.List)
			secured.GET("/dental-services/:id", dentalServiceHandler.Get)
			secured.POST("/dental-services", adminOnly, dentalServiceHandler.Create)
			secured.PUT("/dental-services/:id", adminOnly, dentalServiceHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/:action", appointmentHandler.Transition)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// BILLING
			// ------------------------------
			secured.POST("/consulted-services", consultedServiceHandler.Create)
			secured.GET("/consulted-services", consultedServiceHandler.List)
			secured.GET("/consulted-services/:id", consultedServiceHandler.Get)
			secured.PUT("/consulted-services/:id", consultedServiceHandler.Update)
			secured.PATCH("/consulted-services/:id/confirm", consultedServiceHandler.Confirm)
			secured.DELETE("/consulted-services/:id", consultedServiceHandler.Delete)

			secured.POST("/payment-vouchers", paymentVoucherHandler.Create)
			secured.GET("/payment-vouchers", paymentVoucherHandler.List)
			secured.GET("/payment-vouchers/:id", paymentVoucherHandler.Get)
			secured.PUT("/payment-vouchers/:id", paymentVoucherHandler.Update)
			secured.DELETE("/payment-vouchers/:id", paymentVoucherHandler.Delete)

			// ------------------------------
			// CARE
			// ------------------------------
			secured.POST("/treatment-logs", careHandler.CreateLog)
			secured.GET("/treatment-logs", careHandler.ListLogs)
			secured.POST("/treatment-cares", careHandler.CreateCare)
			secured.GET("/treatment-cares", careHandler.ListCares)
			secured.DELETE("/treatment-cares/:id", careHandler.DeleteCare)

			// ------------------------------
			// REPORTS
			// ------------------------------
			reports := secured.Group("/reports")
			reports.Use(middleware.RequireRole(models.RoleAdmin, models.RoleAccountant))
			{
				reports.GET("/revenue", reportHandler.Revenue)
				reports.GET("/revenue/export", reportHandler.ExportRevenue)
			}

			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}
}
