package webhook

import (
	orderapp "github.com/storefront/backend/internal/application/order"
)

// OrderEventPayload is a status event pushed by a remote storefront.
// EventID is the platform's delivery id, used for duplicate suppression;
// platforms that omit it forfeit dedupe but keep ordering tolerance.
// Items and Total are only required when the event is the first sighting
// of the order.
type OrderEventPayload struct {
	EventID       string                      `json:"event_id"`
	Platform      string                      `json:"platform" binding:"required"`
	ShopID        string                      `json:"shop_id" binding:"required,uuid"`
	BuyerID       string                      `json:"buyer_id" binding:"omitempty,uuid"`
	RemoteOrderID string                      `json:"remote_order_id" binding:"required"`
	Status        string                      `json:"status" binding:"required"`
	Items         []orderapp.OrderItemRequest `json:"items" binding:"omitempty,dive"`
	Total         string                      `json:"total"`
}

// Result reports what an ingested event did. A NoOp result means the event
// was a duplicate or arrived after the order had already moved past the
// target; both are acknowledged without effect.
type Result struct {
	Order   *orderapp.OrderResponse `json:"order,omitempty"`
	Created bool                    `json:"created"`
	NoOp    bool                    `json:"no_op"`
	Reason  string                  `json:"reason,omitempty"`
}
