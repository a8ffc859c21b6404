package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the persistence port for orders
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByRemoteID loads an order by its origin-platform order id
	FindByRemoteID(ctx context.Context, platform Platform, remoteOrderID string) (*Order, error)

	// FindAllForShops lists orders belonging to any of the given shops
	FindAllForShops(ctx context.Context, shopIDs []uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByBuyer lists orders placed by a buyer
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountForShops counts orders belonging to any of the given shops
	CountForShops(ctx context.Context, shopIDs []uuid.UUID, filter shared.Filter) (int64, error)

	// Save persists a new order and its items
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists a status change under an optimistic version check
	// and appends the order's pending domain events to the event log within
	// the same transaction. Returns CONCURRENCY_CONFLICT when the stored
	// version no longer matches.
	SaveWithLock(ctx context.Context, o *Order) error
}

// EventRecord is a persisted audit row for a status change
type EventRecord struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ShopID      uuid.UUID
	FromStatus  OrderStatus
	ToStatus    OrderStatus
	ActorUserID uuid.UUID
	OccurredAt  time.Time
}

// EventLogRepository defines the query port for the order event audit log
type EventLogRepository interface {
	// ListByOrder returns the event log for an order in apply order
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]EventRecord, error)

	// CountByOrder counts logged events for an order
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}
