package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) GetDentalService(ctx context.Context, id uint) (*models.DentalService, error) {
	var s models.DentalService
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListDentalServices(ctx context.Context) ([]models.DentalService, error) {
	var out []models.DentalService
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogGormRepository) SaveDentalService(ctx context.Context, s *models.DentalService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Compile-time check
var _ domain.Catalog = (*CatalogGormRepository)(nil)
