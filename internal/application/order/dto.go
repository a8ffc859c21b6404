package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderItemRequest is a line item in an order creation request
type OrderItemRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

// CreateOrderRequest is the request to create an order. The declared total
// must match the sum of item subtotals.
type CreateOrderRequest struct {
	ShopID         string             `json:"shop_id" binding:"required,uuid"`
	OriginPlatform string             `json:"origin_platform" binding:"omitempty,oneof=PRIMARY MARKETPLACE OUTLET"`
	RemoteOrderID  string             `json:"remote_order_id"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Total          string             `json:"total" binding:"required"`
}

// TransitionRequest is the request to move an order to a new status.
// The status is normalized before validation, so "to-ship" and "TO_SHIP"
// are the same target.
type TransitionRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// OrderItemResponse is the API representation of a line item
type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             string              `json:"id"`
	ShopID         string              `json:"shop_id"`
	BuyerID        string              `json:"buyer_id"`
	OriginPlatform string              `json:"origin_platform"`
	RemoteOrderID  string              `json:"remote_order_id,omitempty"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	Total          string              `json:"total"`
	Version        int                 `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Change is the audited status change the operation emitted, if any.
	// It never serializes; the webhook ingress relays it to the other
	// storefronts so mirrored updates keep the event id and timestamps of
	// the local audit log.
	Change *order.StatusChange `json:"-"`
}

// EventRecordResponse is the API representation of an audit log entry
type EventRecordResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status"`
	ActorUserID string    `json:"actor_user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ToOrderResponse converts an order to its API representation
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	return &OrderResponse{
		ID:             o.ID.String(),
		ShopID:         o.ShopID.String(),
		BuyerID:        o.BuyerID.String(),
		OriginPlatform: o.OriginPlatform.String(),
		RemoteOrderID:  o.RemoteOrderID,
		Status:         o.Status.String(),
		Items:          items,
		Total:          o.Total.String(),
		Version:        o.GetVersion(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToEventRecordResponse converts an audit entry to its API representation
func ToEventRecordResponse(r order.EventRecord) EventRecordResponse {
	return EventRecordResponse{
		ID:          r.ID.String(),
		OrderID:     r.OrderID.String(),
		FromStatus:  r.FromStatus.String(),
		ToStatus:    r.ToStatus.String(),
		ActorUserID: r.ActorUserID.String(),
		OccurredAt:  r.OccurredAt,
	}
}

// ParseItemSpecs parses request items into domain item specs
func ParseItemSpecs(items []OrderItemRequest) ([]order.ItemSpec, error) {
	specs := make([]order.ItemSpec, 0, len(items))
	for _, item := range items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION", "Invalid unit price: "+item.UnitPrice)
		}
		specs = append(specs, order.ItemSpec{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		})
	}
	return specs, nil
}
