package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// StatusChange is the unit fanned out to connected sessions and recorded in
// the order event log. FromStatus is empty for the creation event.
type StatusChange struct {
	EventID     uuid.UUID   `json:"event_id"`
	OrderID     uuid.UUID   `json:"order_id"`
	ShopID      uuid.UUID   `json:"shop_id"`
	BuyerID     uuid.UUID   `json:"buyer_id"`
	FromStatus  OrderStatus `json:"from_status,omitempty"`
	ToStatus    OrderStatus `json:"to_status"`
	ActorUserID uuid.UUID   `json:"actor_user_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	ShopID         uuid.UUID `json:"shop_id"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	OriginPlatform Platform  `json:"origin_platform"`
	ActorUserID    uuid.UUID `json:"actor_user_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order, actorUserID uuid.UUID) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ShopID:          o.ShopID,
		BuyerID:         o.BuyerID,
		OriginPlatform:  o.OriginPlatform,
		ActorUserID:     actorUserID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// Change returns the fan-out payload for the creation event
func (e *OrderCreatedEvent) Change() StatusChange {
	return StatusChange{
		EventID:     e.EventID(),
		OrderID:     e.OrderID,
		ShopID:      e.ShopID,
		BuyerID:     e.BuyerID,
		ToStatus:    OrderStatusPending,
		ActorUserID: e.ActorUserID,
		OccurredAt:  e.OccurredAt(),
	}
}

// OrderStatusChangedEvent is raised on every successful status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	ShopID      uuid.UUID   `json:"shop_id"`
	BuyerID     uuid.UUID   `json:"buyer_id"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	ActorUserID uuid.UUID   `json:"actor_user_id"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to OrderStatus, actorUserID uuid.UUID) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ShopID:          o.ShopID,
		BuyerID:         o.BuyerID,
		FromStatus:      from,
		ToStatus:        to,
		ActorUserID:     actorUserID,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// Change returns the fan-out payload for the transition
func (e *OrderStatusChangedEvent) Change() StatusChange {
	return StatusChange{
		EventID:     e.EventID(),
		OrderID:     e.OrderID,
		ShopID:      e.ShopID,
		BuyerID:     e.BuyerID,
		FromStatus:  e.FromStatus,
		ToStatus:    e.ToStatus,
		ActorUserID: e.ActorUserID,
		OccurredAt:  e.OccurredAt(),
	}
}

// ChangeCarrier is implemented by order domain events that can be fanned out
// to connected sessions
type ChangeCarrier interface {
	Change() StatusChange
}
