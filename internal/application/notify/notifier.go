package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
)

// Publisher delivers order status changes to interested sessions.
// Delivery is best-effort; a missed message is never an error.
type Publisher interface {
	Publish(ctx context.Context, change order.StatusChange)
}

// SessionTransport pushes a change to currently connected sessions.
// Implementations must not block on slow consumers.
type SessionTransport interface {
	// SendToUser delivers to every session authenticated as the user
	SendToUser(userID uuid.UUID, change order.StatusChange)

	// SendToShop delivers to every session subscribed to the shop channel
	SendToShop(shopID uuid.UUID, change order.StatusChange)
}

// Notifier fans a status change out to the order's buyer and to the shop
// channel the sellers watch. Sessions receive each change at most once;
// the transport deduplicates a buyer who also watches the shop.
type Notifier struct {
	transport SessionTransport
	logger    *zap.Logger
}

// NewNotifier creates a notifier over the given transport
func NewNotifier(transport SessionTransport, logger *zap.Logger) *Notifier {
	return &Notifier{
		transport: transport,
		logger:    logger,
	}
}

// Publish fans the change out to the buyer and the shop channel
func (n *Notifier) Publish(_ context.Context, change order.StatusChange) {
	n.transport.SendToUser(change.BuyerID, change)
	n.transport.SendToShop(change.ShopID, change)

	n.logger.Debug("status change published",
		zap.String("order_id", change.OrderID.String()),
		zap.String("to_status", change.ToStatus.String()),
	)
}

// NopPublisher discards every change. Used where no session transport is
// wired, for example in bulk imports and tests.
type NopPublisher struct{}

// Publish discards the change
func (NopPublisher) Publish(context.Context, order.StatusChange) {}
