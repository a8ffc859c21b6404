package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Platform identifies the storefront an order was first created on
type Platform string

const (
	PlatformPrimary     Platform = "PRIMARY"
	PlatformMarketplace Platform = "MARKETPLACE"
	PlatformOutlet      Platform = "OUTLET"
)

// IsValid checks if the platform is a known storefront
func (p Platform) IsValid() bool {
	switch p {
	case PlatformPrimary, PlatformMarketplace, PlatformOutlet:
		return true
	}
	return false
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   string // opaque, may be a remote platform product id
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID uuid.UUID, productID, productName string, quantity int64, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == "" {
		return nil, shared.NewDomainError("VALIDATION", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("VALIDATION", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Order represents an order aggregate root shared by all storefronts.
// The total is fixed at creation time; the only mutation after persistence
// is a status transition, orders are never deleted.
type Order struct {
	shared.BaseAggregateRoot
	ShopID         uuid.UUID
	BuyerID        uuid.UUID
	OriginPlatform Platform
	RemoteOrderID  string // order id on the origin storefront, empty for local orders
	Items          []OrderItem
	Total          decimal.Decimal
	Status         OrderStatus
}

// ItemSpec describes a line item for order creation
type ItemSpec struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// NewOrder creates a new order in PENDING status.
// The declared total must equal the sum of item subtotals; it is never
// recomputed afterwards.
func NewOrder(shopID, buyerID uuid.UUID, origin Platform, remoteOrderID string, items []ItemSpec, total decimal.Decimal) (*Order, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Shop ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Buyer ID cannot be empty")
	}
	if !origin.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", "Unknown origin platform: "+origin.String())
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "Order must have at least one item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ShopID:            shopID,
		BuyerID:           buyerID,
		OriginPlatform:    origin,
		RemoteOrderID:     remoteOrderID,
		Items:             make([]OrderItem, 0, len(items)),
		Status:            OrderStatusPending,
	}

	sum := decimal.Zero
	for _, spec := range items {
		item, err := NewOrderItem(o.ID, spec.ProductID, spec.ProductName, spec.Quantity, spec.UnitPrice)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
		sum = sum.Add(item.Subtotal)
	}

	if !sum.Equal(total) {
		return nil, shared.NewDomainError("VALIDATION",
			fmt.Sprintf("Declared total %s does not match item subtotals %s", total.String(), sum.String()))
	}
	o.Total = total

	o.AddDomainEvent(NewOrderCreatedEvent(o, buyerID))

	return o, nil
}

// NewImportedOrder restores an order backfilled from a remote storefront.
// The reported status is accepted as-is after validation, and no creation
// event is emitted because the order's history predates this system.
func NewImportedOrder(shopID, buyerID uuid.UUID, origin Platform, remoteOrderID string, items []ItemSpec, total decimal.Decimal, status OrderStatus, createdAt time.Time) (*Order, error) {
	if remoteOrderID == "" {
		return nil, shared.NewDomainError("VALIDATION", "Imported order must carry its remote order ID")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", "Unknown order status: "+status.String())
	}

	o, err := NewOrder(shopID, buyerID, origin, remoteOrderID, items, total)
	if err != nil {
		return nil, err
	}
	o.Status = status
	if !createdAt.IsZero() {
		o.CreatedAt = createdAt
	}
	o.ClearDomainEvents()
	return o, nil
}

// TransitionTo applies a status transition after validating the edge.
// Terminal statuses reject every transition.
func (o *Order) TransitionTo(target OrderStatus, actorUserID uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION", "Unknown order status: "+target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Touch()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target, actorUserID))

	return nil
}

// IsTerminal returns true if the order reached a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// buyerTargets are the transitions a buyer may request on their own order:
// confirming receipt, cancelling before shipment, and requesting a return.
// The transition table still applies on top of this set.
var buyerTargets = map[OrderStatus]bool{
	OrderStatusCompleted: true,
	OrderStatusCancelled: true,
	OrderStatusReturned:  true,
}

// BuyerMayRequest reports whether a buyer self-action may target the status
func BuyerMayRequest(target OrderStatus) bool {
	return buyerTargets[target]
}
