package integration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// Port-level errors for remote storefront access
var (
	ErrStorefrontNotConfigured   = errors.New("integration: storefront not configured")
	ErrStorefrontRequestFailed   = errors.New("integration: storefront request failed")
	ErrStorefrontInvalidResponse = errors.New("integration: invalid storefront response")
)

// Credential is a stored long-lived credential for a remote storefront's
// read API. It is issued to the shop owner during integration connect,
// so sync runs act as that user by construction.
type Credential struct {
	UserID      uuid.UUID
	ShopID      uuid.UUID
	Platform    order.Platform
	AccessToken string
}

// RemoteOrderItem is a line item as reported by a remote storefront
type RemoteOrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// RemoteOrder is an order as reported by a remote storefront's read API
type RemoteOrder struct {
	RemoteOrderID string
	ShopID        uuid.UUID
	BuyerID       uuid.UUID
	Status        string // raw platform status, normalized on import
	Items         []RemoteOrderItem
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// RemoteProduct is a catalog entry as reported by a remote storefront
type RemoteProduct struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
}

// OrderPage is one page of a remote order listing
type OrderPage struct {
	Orders  []RemoteOrder
	HasNext bool
}

// ProductPage is one page of a remote product listing
type ProductPage struct {
	Products []RemoteProduct
	HasNext  bool
}

// RemoteStorefront is the read API of a remote storefront, used by bulk
// backfill only. Implementations authenticate with a stored Credential.
type RemoteStorefront interface {
	// Platform returns the storefront this client talks to
	Platform() order.Platform

	// ListOrders returns one page of historical orders for a shop
	ListOrders(ctx context.Context, cred Credential, page int) (*OrderPage, error)

	// ListProducts returns one page of the shop's product catalog
	ListProducts(ctx context.Context, cred Credential, page int) (*ProductPage, error)
}
