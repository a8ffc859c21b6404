package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormEventLogRepository implements order.EventLogRepository using GORM.
// Rows are written by GormOrderRepository.SaveWithLock; this repository only
// reads them back.
type GormEventLogRepository struct {
	db *gorm.DB
}

// NewGormEventLogRepository creates a new GormEventLogRepository
func NewGormEventLogRepository(db *gorm.DB) *GormEventLogRepository {
	return &GormEventLogRepository{db: db}
}

// ListByOrder returns the event log for an order in apply order
func (r *GormEventLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.EventRecord, error) {
	var eventModels []models.OrderEventModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("occurred_at ASC, created_at ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	records := make([]order.EventRecord, len(eventModels))
	for i := range eventModels {
		records[i] = eventModels[i].ToDomain()
	}
	return records, nil
}

// CountByOrder counts logged events for an order
func (r *GormEventLogRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderEventModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
