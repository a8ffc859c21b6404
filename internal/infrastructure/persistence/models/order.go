package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate root.
// The partial unique index keeps a remote order from being imported twice
// while leaving locally created orders (empty remote id) unconstrained.
type OrderModel struct {
	AggregateModel
	ShopID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_orders_shop"`
	BuyerID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_orders_buyer"`
	OriginPlatform order.Platform    `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_origin_remote,where:remote_order_id <> '',priority:1"`
	RemoteOrderID  string            `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_orders_origin_remote,where:remote_order_id <> '',priority:2"`
	Items          []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
	Total          decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status         order.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ShopID:            m.ShopID,
		BuyerID:           m.BuyerID,
		OriginPlatform:    m.OriginPlatform,
		RemoteOrderID:     m.RemoteOrderID,
		Items:             make([]order.OrderItem, len(m.Items)),
		Total:             m.Total,
		Status:            m.Status,
	}
	for i := range m.Items {
		o.Items[i] = *m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.ShopID = o.ShopID
	m.BuyerID = o.BuyerID
	m.OriginPlatform = o.OriginPlatform
	m.RemoteOrderID = o.RemoteOrderID
	m.Total = o.Total
	m.Status = o.Status
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line item.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_order"`
	ProductID   string          `gorm:"type:varchar(100);not null"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *order.OrderItem {
	return &order.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(item *order.OrderItem) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Subtotal = item.Subtotal
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// OrderEventModel is the persistence model for the order status audit log.
// Rows are append-only; the primary key is the domain event id, so replaying
// the same event is a no-op at the storage level.
type OrderEventModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_order_events_order"`
	ShopID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_order_events_shop"`
	FromStatus  order.OrderStatus `gorm:"type:varchar(20)"`
	ToStatus    order.OrderStatus `gorm:"type:varchar(20);not null"`
	ActorUserID uuid.UUID         `gorm:"type:uuid;not null"`
	OccurredAt  time.Time         `gorm:"not null;index"`
	CreatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderEventModel) TableName() string {
	return "order_events"
}

// ToDomain converts the persistence model to a domain EventRecord.
func (m *OrderEventModel) ToDomain() order.EventRecord {
	return order.EventRecord{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ShopID:      m.ShopID,
		FromStatus:  m.FromStatus,
		ToStatus:    m.ToStatus,
		ActorUserID: m.ActorUserID,
		OccurredAt:  m.OccurredAt,
	}
}

// OrderEventModelFromChange creates an audit row from a status change.
func OrderEventModelFromChange(change order.StatusChange) *OrderEventModel {
	return &OrderEventModel{
		ID:          change.EventID,
		OrderID:     change.OrderID,
		ShopID:      change.ShopID,
		FromStatus:  change.FromStatus,
		ToStatus:    change.ToStatus,
		ActorUserID: change.ActorUserID,
		OccurredAt:  change.OccurredAt,
		CreatedAt:   time.Now(),
	}
}
