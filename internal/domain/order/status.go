package order

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusToShip    OrderStatus = "TO_SHIP"
	OrderStatusToReceive OrderStatus = "TO_RECEIVE"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusReturned  OrderStatus = "RETURNED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusToShip, OrderStatusToReceive, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusReturned, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status has no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusToShip || target == OrderStatusCancelled || target == OrderStatusFailed
	case OrderStatusToShip:
		// Cancellation closes only before shipment; once the order ships the
		// buyer's exit is the return flow, not a cancel.
		return target == OrderStatusToReceive || target == OrderStatusFailed
	case OrderStatusToReceive:
		return target == OrderStatusCompleted || target == OrderStatusReturned || target == OrderStatusFailed
	case OrderStatusReturned:
		return target == OrderStatusRefunded || target == OrderStatusFailed
	}
	// Terminal states reject all edges
	return false
}

// forwardRank orders the happy-path statuses for staleness detection.
// Side-exit statuses have no forward rank.
var forwardRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusToShip:    1,
	OrderStatusToReceive: 2,
	OrderStatusCompleted: 3,
}

// ForwardRank returns the happy-path position of the status.
// The second return value is false for side-exit statuses.
func (s OrderStatus) ForwardRank() (int, bool) {
	rank, ok := forwardRank[s]
	return rank, ok
}

// IsStaleTargetFor reports whether a request to move the order to target is a
// stale delivery given the current status: the target is a happy-path status
// the order has already reached or moved beyond. Side-exit current statuses
// count as "moved beyond" every happy-path target.
func IsStaleTargetFor(current, target OrderStatus) bool {
	targetRank, targetForward := target.ForwardRank()
	if !targetForward {
		return false
	}
	currentRank, currentForward := current.ForwardRank()
	if !currentForward {
		return true
	}
	return currentRank >= targetRank
}

// statusReplacer collapses the separator variants storefront frontends send
var statusReplacer = strings.NewReplacer("-", "_", " ", "_")

// ParseOrderStatus normalizes a raw status string to the closed enum.
// Casing and separator variants ("to-ship", "To Ship", "TO_SHIP") map to the
// same status; anything else is a validation error. Normalization happens
// exactly once at the boundary, callers never compare raw strings.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := OrderStatus(statusReplacer.Replace(strings.ToUpper(strings.TrimSpace(raw))))
	if !normalized.IsValid() {
		return "", shared.NewDomainError("VALIDATION", "Unknown order status: "+raw)
	}
	return normalized, nil
}
