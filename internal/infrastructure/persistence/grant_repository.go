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

// GormGrantRepository implements access.GrantRepository using GORM
type GormGrantRepository struct {
	db *gorm.DB
}

// NewGormGrantRepository creates a new GormGrantRepository
func NewGormGrantRepository(db *gorm.DB) *GormGrantRepository {
	return &GormGrantRepository{db: db}
}

// FindByUserAndShop finds the grant for a (user, shop) pair
func (r *GormGrantRepository) FindByUserAndShop(ctx context.Context, userID, shopID uuid.UUID) (*access.Grant, error) {
	var model models.GrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists all grants held by a user
func (r *GormGrantRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]access.Grant, error) {
	var grantModels []models.GrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&grantModels).Error; err != nil {
		return nil, err
	}

	grants := make([]access.Grant, len(grantModels))
	for i := range grantModels {
		grants[i] = *grantModels[i].ToDomain()
	}
	return grants, nil
}

// Save creates or updates a grant
func (r *GormGrantRepository) Save(ctx context.Context, g *access.Grant) error {
	model := models.GrantModelFromDomain(g)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes the grant for a (user, shop) pair
func (r *GormGrantRepository) Delete(ctx context.Context, userID, shopID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Delete(&models.GrantModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
