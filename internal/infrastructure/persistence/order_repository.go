package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds an order by its origin-platform order id
func (r *GormOrderRepository) FindByRemoteID(ctx context.Context, platform order.Platform, remoteOrderID string) (*order.Order, error) {
	if remoteOrderID == "" {
		return nil, shared.ErrNotFound
	}

	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("origin_platform = ? AND remote_order_id = ?", platform, remoteOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForShops finds orders belonging to any of the given shops
func (r *GormOrderRepository) FindAllForShops(ctx context.Context, shopIDs []uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	if len(shopIDs) == 0 {
		return []order.Order{}, nil
	}

	var orderModels []models.OrderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("shop_id IN ?", shopIDs),
		filter,
	)
	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindByBuyer finds orders placed by a buyer
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("buyer_id = ?", buyerID),
		filter,
	)
	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// CountForShops counts orders belonging to any of the given shops
func (r *GormOrderRepository) CountForShops(ctx context.Context, shopIDs []uuid.UUID, filter shared.Filter) (int64, error) {
	if len(shopIDs) == 0 {
		return 0, nil
	}

	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("shop_id IN ?", shopIDs),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a new order and its items, together with the creation
// audit row when the order carries a pending creation event.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			model.Items[i].OrderID = model.ID
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		for _, event := range o.GetDomainEvents() {
			created, ok := event.(*order.OrderCreatedEvent)
			if !ok {
				continue
			}
			record := models.OrderEventModelFromChange(created.Change())
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to append order event: %w", err)
			}
		}
		return nil
	})
}

// SaveWithLock persists a status change with optimistic locking and appends
// the order's pending status-change events to the audit log in the same
// transaction. Items are immutable after creation and are not touched.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		lookup := tx.Model(&models.OrderModel{}).
			Select("version").
			Where("id = ?", o.ID).
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != o.Version {
			return shared.ErrConcurrencyConflict
		}

		o.Version++
		o.UpdatedAt = time.Now()

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":     o.Status,
				"version":    o.Version,
				"updated_at": o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for _, event := range o.GetDomainEvents() {
			changed, ok := event.(*order.OrderStatusChangedEvent)
			if !ok {
				continue
			}
			record := models.OrderEventModelFromChange(changed.Change())
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to append order event: %w", err)
			}
		}

		return nil
	})
}

// applyFilter applies pagination and sorting to a query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies the filter map to a query
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "origin_platform":
			query = query.Where("origin_platform = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		case "shop_id":
			query = query.Where("shop_id = ?", value)
		}
	}
	return query
}

func toDomainOrders(orderModels []models.OrderModel) []order.Order {
	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}
