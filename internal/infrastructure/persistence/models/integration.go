package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
)

// SyncRecordModel is the persistence model for a backfill run record.
type SyncRecordModel struct {
	BaseModel
	ShopID         uuid.UUID              `gorm:"type:uuid;not null;index:idx_sync_records_shop_platform,priority:1"`
	Platform       order.Platform         `gorm:"type:varchar(20);not null;index:idx_sync_records_shop_platform,priority:2"`
	Status         integration.SyncStatus `gorm:"type:varchar(20);not null;default:'RUNNING'"`
	OrdersImported int                    `gorm:"not null;default:0"`
	OrdersSkipped  int                    `gorm:"not null;default:0"`
	ProductsSeen   int                    `gorm:"not null;default:0"`
	LastError      string                 `gorm:"type:text"`
	StartedAt      time.Time              `gorm:"not null;index"`
	FinishedAt     *time.Time
}

// TableName returns the table name for GORM
func (SyncRecordModel) TableName() string {
	return "sync_records"
}

// ToDomain converts the persistence model to a domain SyncRecord entity.
func (m *SyncRecordModel) ToDomain() *integration.SyncRecord {
	return &integration.SyncRecord{
		BaseEntity:     m.BaseModel.ToDomain(),
		ShopID:         m.ShopID,
		Platform:       m.Platform,
		Status:         m.Status,
		OrdersImported: m.OrdersImported,
		OrdersSkipped:  m.OrdersSkipped,
		ProductsSeen:   m.ProductsSeen,
		LastError:      m.LastError,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncRecord entity.
func (m *SyncRecordModel) FromDomain(r *integration.SyncRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ShopID = r.ShopID
	m.Platform = r.Platform
	m.Status = r.Status
	m.OrdersImported = r.OrdersImported
	m.OrdersSkipped = r.OrdersSkipped
	m.ProductsSeen = r.ProductsSeen
	m.LastError = r.LastError
	m.StartedAt = r.StartedAt
	m.FinishedAt = r.FinishedAt
}

// SyncRecordModelFromDomain creates a new persistence model from a domain SyncRecord.
func SyncRecordModelFromDomain(r *integration.SyncRecord) *SyncRecordModel {
	m := &SyncRecordModel{}
	m.FromDomain(r)
	return m
}

// ProductMappingModel is the persistence model for a remote product mapping.
type ProductMappingModel struct {
	BaseModel
	ShopID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_product_mappings_key,priority:1"`
	Platform  order.Platform `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_mappings_key,priority:2"`
	ProductID string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_mappings_key,priority:3"`
	Name      string         `gorm:"type:varchar(255)"`
	Price     string         `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ProductMappingModel) TableName() string {
	return "product_mappings"
}

// ToDomain converts the persistence model to a domain ProductMapping entity.
func (m *ProductMappingModel) ToDomain() *integration.ProductMapping {
	return &integration.ProductMapping{
		BaseEntity: m.BaseModel.ToDomain(),
		ShopID:     m.ShopID,
		Platform:   m.Platform,
		ProductID:  m.ProductID,
		Name:       m.Name,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain ProductMapping entity.
func (m *ProductMappingModel) FromDomain(pm *integration.ProductMapping) {
	m.FromDomainBaseEntity(pm.BaseEntity)
	m.ShopID = pm.ShopID
	m.Platform = pm.Platform
	m.ProductID = pm.ProductID
	m.Name = pm.Name
	m.Price = pm.Price
}

// ProductMappingModelFromDomain creates a new persistence model from a domain ProductMapping.
func ProductMappingModelFromDomain(pm *integration.ProductMapping) *ProductMappingModel {
	m := &ProductMappingModel{}
	m.FromDomain(pm)
	return m
}
