package ecommerce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
)

// wireOrderItem is a line item as the remote API reports it
type wireOrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// wireOrder is an order as the remote API reports it
type wireOrder struct {
	OrderID   string          `json:"order_id"`
	ShopID    string          `json:"shop_id"`
	BuyerID   string          `json:"buyer_id"`
	Status    string          `json:"status"`
	Total     string          `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []wireOrderItem `json:"items"`
}

// orderPageResponse is one page of the remote order listing
type orderPageResponse struct {
	Orders  []wireOrder `json:"orders"`
	HasNext bool        `json:"has_next"`
}

// wireProduct is a catalog entry as the remote API reports it
type wireProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
}

// productPageResponse is one page of the remote product listing
type productPageResponse struct {
	Products []wireProduct `json:"products"`
	HasNext  bool          `json:"has_next"`
}

// statusPushRequest is the body of an outbound status mirror
type statusPushRequest struct {
	EventID    string    `json:"event_id"`
	FromStatus string    `json:"from_status,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ParseDecimal parses a decimal string, returning zero for empty or
// malformed values
func ParseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// mapRemoteStatus normalizes a remote storefront status to the canonical
// vocabulary. Unknown statuses pass through unchanged and are skipped by
// the importer.
func mapRemoteStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PENDING", "UNPAID", "WAIT_PAY":
		return order.OrderStatusPending.String()
	case "TO_SHIP", "PAID", "PROCESSING", "WAIT_SHIP":
		return order.OrderStatusToShip.String()
	case "TO_RECEIVE", "SHIPPED", "IN_TRANSIT":
		return order.OrderStatusToReceive.String()
	case "COMPLETED", "DONE", "RECEIVED", "FINISHED":
		return order.OrderStatusCompleted.String()
	case "CANCELLED", "CLOSED":
		return order.OrderStatusCancelled.String()
	case "RETURNED", "RETURN_REQUESTED":
		return order.OrderStatusReturned.String()
	case "REFUNDED":
		return order.OrderStatusRefunded.String()
	case "FAILED":
		return order.OrderStatusFailed.String()
	default:
		return status
	}
}

// toRemoteOrder converts a wire order to the domain representation
func (w *wireOrder) toRemoteOrder() integration.RemoteOrder {
	ro := integration.RemoteOrder{
		RemoteOrderID: w.OrderID,
		Status:        mapRemoteStatus(w.Status),
		Total:         ParseDecimal(w.Total),
		CreatedAt:     w.CreatedAt,
		Items:         make([]integration.RemoteOrderItem, 0, len(w.Items)),
	}
	if id, err := uuid.Parse(w.ShopID); err == nil {
		ro.ShopID = id
	}
	if id, err := uuid.Parse(w.BuyerID); err == nil {
		ro.BuyerID = id
	}
	for _, item := range w.Items {
		ro.Items = append(ro.Items, integration.RemoteOrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   ParseDecimal(item.UnitPrice),
		})
	}
	return ro
}

// toRemoteProduct converts a wire product to the domain representation
func (w *wireProduct) toRemoteProduct() integration.RemoteProduct {
	return integration.RemoteProduct{
		ProductID: w.ProductID,
		Name:      w.Name,
		Price:     ParseDecimal(w.Price),
	}
}
