package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Indexes AutoMigrate cannot express.
var partialIndexes = []string{
	// One non-cancelled appointment per customer per clinic day.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_customer_day_active
		ON appointments (customer_id, appointment_day)
		WHERE status <> 'Đã hủy'`,
	`CREATE INDEX IF NOT EXISTS idx_payment_vouchers_clinic_date
		ON payment_vouchers (clinic_id, payment_date)`,
}

func NewDB(cfg *config.Config) *gorm.DB {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.Employee{},
		&models.Customer{},
		&models.DentalService{},
		&models.Appointment{},
		&models.ConsultedService{},
		&models.PaymentVoucher{},
		&models.PaymentVoucherDetail{},
		&models.TreatmentLog{},
		&models.TreatmentCare{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return db.Exec(`
		UPDATE clinics
		SET timezone = 'Asia/Ho_Chi_Minh'
		WHERE timezone IS NULL OR timezone = ''
	`).Error
}
