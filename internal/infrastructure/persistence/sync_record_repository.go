package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormSyncRecordRepository implements integration.SyncRecordRepository using GORM
type GormSyncRecordRepository struct {
	db *gorm.DB
}

// NewGormSyncRecordRepository creates a new GormSyncRecordRepository
func NewGormSyncRecordRepository(db *gorm.DB) *GormSyncRecordRepository {
	return &GormSyncRecordRepository{db: db}
}

// Save creates or updates a sync record
func (r *GormSyncRecordRepository) Save(ctx context.Context, rec *integration.SyncRecord) error {
	model := models.SyncRecordModelFromDomain(rec)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindLatest returns the most recent record for a (shop, platform) pair
func (r *GormSyncRecordRepository) FindLatest(ctx context.Context, shopID uuid.UUID, platform order.Platform) (*integration.SyncRecord, error) {
	var model models.SyncRecordModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND platform = ?", shopID, platform).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
