package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormProductMappingRepository implements integration.ProductMappingRepository using GORM
type GormProductMappingRepository struct {
	db *gorm.DB
}

// NewGormProductMappingRepository creates a new GormProductMappingRepository
func NewGormProductMappingRepository(db *gorm.DB) *GormProductMappingRepository {
	return &GormProductMappingRepository{db: db}
}

// Upsert creates or refreshes a mapping keyed by (shop, platform, product)
func (r *GormProductMappingRepository) Upsert(ctx context.Context, pm *integration.ProductMapping) error {
	model := models.ProductMappingModelFromDomain(pm)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "shop_id"},
				{Name: "platform"},
				{Name: "product_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price", "updated_at"}),
		}).
		Create(model).Error
}

// FindByProduct looks up a mapping
func (r *GormProductMappingRepository) FindByProduct(ctx context.Context, shopID uuid.UUID, platform order.Platform, productID string) (*integration.ProductMapping, error) {
	var model models.ProductMappingModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND platform = ? AND product_id = ?", shopID, platform, productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
