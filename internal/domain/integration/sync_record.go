package integration

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// SyncStatus represents the state of a backfill run
type SyncStatus string

const (
	SyncStatusRunning    SyncStatus = "RUNNING"
	SyncStatusSuccess    SyncStatus = "SUCCESS"
	SyncStatusIncomplete SyncStatus = "INCOMPLETE"
)

// IsValid checks if the status is a valid SyncStatus
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusRunning, SyncStatusSuccess, SyncStatusIncomplete:
		return true
	}
	return false
}

// SyncRecord tracks the latest backfill run for a (shop, platform) pair
type SyncRecord struct {
	shared.BaseEntity
	ShopID         uuid.UUID
	Platform       order.Platform
	Status         SyncStatus
	OrdersImported int
	OrdersSkipped  int
	ProductsSeen   int
	LastError      string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// NewSyncRecord starts a sync record for a run
func NewSyncRecord(shopID uuid.UUID, platform order.Platform) *SyncRecord {
	return &SyncRecord{
		BaseEntity: shared.NewBaseEntity(),
		ShopID:     shopID,
		Platform:   platform,
		Status:     SyncStatusRunning,
		StartedAt:  time.Now(),
	}
}

// Finish marks the run finished with the given outcome
func (r *SyncRecord) Finish(status SyncStatus, lastError string) {
	now := time.Now()
	r.Status = status
	r.LastError = lastError
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// ProductMapping maps a remote platform product to its catalog info, used to
// enrich imported line items that arrive without names
type ProductMapping struct {
	shared.BaseEntity
	ShopID    uuid.UUID
	Platform  order.Platform
	ProductID string
	Name      string
	Price     string // decimal string, informational only
}

// SyncRecordRepository defines the persistence port for sync records
type SyncRecordRepository interface {
	// Save persists a sync record
	Save(ctx context.Context, r *SyncRecord) error

	// FindLatest returns the most recent record for a (shop, platform) pair
	FindLatest(ctx context.Context, shopID uuid.UUID, platform order.Platform) (*SyncRecord, error)
}

// ProductMappingRepository defines the persistence port for product mappings
type ProductMappingRepository interface {
	// Upsert creates or refreshes a mapping keyed by (shop, platform, product)
	Upsert(ctx context.Context, m *ProductMapping) error

	// FindByProduct looks up a mapping
	FindByProduct(ctx context.Context, shopID uuid.UUID, platform order.Platform, productID string) (*ProductMapping, error)
}
