package integration

import (
	"time"

	"github.com/storefront/backend/internal/domain/integration"
)

// SyncRecordResponse is the API representation of a backfill run
type SyncRecordResponse struct {
	ID             string     `json:"id"`
	ShopID         string     `json:"shop_id"`
	Platform       string     `json:"platform"`
	Status         string     `json:"status"`
	OrdersImported int        `json:"orders_imported"`
	OrdersSkipped  int        `json:"orders_skipped"`
	ProductsSeen   int        `json:"products_seen"`
	LastError      string     `json:"last_error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// ToSyncRecordResponse converts a sync record to its API representation
func ToSyncRecordResponse(r *integration.SyncRecord) *SyncRecordResponse {
	return &SyncRecordResponse{
		ID:             r.ID.String(),
		ShopID:         r.ShopID.String(),
		Platform:       r.Platform.String(),
		Status:         string(r.Status),
		OrdersImported: r.OrdersImported,
		OrdersSkipped:  r.OrdersSkipped,
		ProductsSeen:   r.ProductsSeen,
		LastError:      r.LastError,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}
