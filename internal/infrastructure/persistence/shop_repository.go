package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/access"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormShopRepository implements access.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*access.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner lists shops owned by a user
func (r *GormShopRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]access.Shop, error) {
	var shopModels []models.ShopModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&shopModels).Error; err != nil {
		return nil, err
	}

	shops := make([]access.Shop, len(shopModels))
	for i := range shopModels {
		shops[i] = *shopModels[i].ToDomain()
	}
	return shops, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, s *access.Shop) error {
	model := models.ShopModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// Exists reports whether a shop exists
func (r *GormShopRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ShopModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
