package webhook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Lifecycle is the slice of the order lifecycle the ingress needs. All
// writes triggered by webhooks go through it, never around it.
type Lifecycle interface {
	CreateRemote(ctx context.Context, spec orderapp.RemoteCreateSpec) (*orderapp.OrderResponse, error)
	Transition(ctx context.Context, actorID, orderID uuid.UUID, target order.OrderStatus) (*orderapp.OrderResponse, error)
}

// Relay mirrors a confirmed status change back out to a remote storefront.
// Relay failures never fail the ingesting request.
type Relay interface {
	Platform() order.Platform
	PushStatus(ctx context.Context, change order.StatusChange, remoteOrderID string) error
}

// IngressService applies storefront webhook events to local orders.
// Deliveries may repeat and arrive out of order; the service acknowledges
// duplicates and stale events without effect and rejects only genuinely
// illegal transitions.
type IngressService struct {
	orders      order.OrderRepository
	lifecycle   Lifecycle
	store       shared.IdempotencyStore
	idempotency shared.IdempotencyConfig
	relays      []Relay
	logger      *zap.Logger
}

// NewIngressService creates a webhook ingress service. The idempotency
// store may be nil, in which case duplicate suppression degrades to the
// staleness check alone.
func NewIngressService(
	orders order.OrderRepository,
	lifecycle Lifecycle,
	store shared.IdempotencyStore,
	idempotency shared.IdempotencyConfig,
	relays []Relay,
	logger *zap.Logger,
) *IngressService {
	return &IngressService{
		orders:      orders,
		lifecycle:   lifecycle,
		store:       store,
		idempotency: idempotency,
		relays:      relays,
		logger:      logger,
	}
}

// forwardPath is the happy path in apply order
var forwardPath = []order.OrderStatus{
	order.OrderStatusPending,
	order.OrderStatusToShip,
	order.OrderStatusToReceive,
	order.OrderStatusCompleted,
}

// Apply ingests one order event pushed by a remote storefront
func (s *IngressService) Apply(ctx context.Context, actorID uuid.UUID, p *OrderEventPayload) (*Result, error) {
	target, err := order.ParseOrderStatus(p.Status)
	if err != nil {
		return nil, err
	}
	platform := order.Platform(p.Platform)
	if !platform.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", "Unknown platform: "+p.Platform)
	}
	shopID, err := uuid.Parse(p.ShopID)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", "Invalid shop ID")
	}

	if s.seen(ctx, p.EventID) {
		return &Result{NoOp: true, Reason: "duplicate delivery"}, nil
	}

	existing, err := s.orders.FindByRemoteID(ctx, platform, p.RemoteOrderID)
	switch {
	case err == nil:
		result, err := s.applyToExisting(ctx, actorID, existing, target)
		if err != nil {
			return nil, err
		}
		if !result.NoOp {
			s.acknowledge(ctx, p, existing.RemoteOrderID, platform, result)
		} else {
			s.markProcessed(ctx, p.EventID)
		}
		return result, nil

	case errors.Is(err, shared.ErrNotFound):
		result, err := s.createFromEvent(ctx, actorID, shopID, platform, target, p)
		if err != nil {
			return nil, err
		}
		s.acknowledge(ctx, p, p.RemoteOrderID, platform, result)
		return result, nil

	default:
		return nil, err
	}
}

// applyToExisting advances a known order, tolerating replays and
// out-of-order delivery
func (s *IngressService) applyToExisting(ctx context.Context, actorID uuid.UUID, o *order.Order, target order.OrderStatus) (*Result, error) {
	if o.Status == target {
		return &Result{NoOp: true, Reason: "already applied"}, nil
	}
	if order.IsStaleTargetFor(o.Status, target) {
		s.logger.Debug("stale webhook event ignored",
			zap.String("order_id", o.ID.String()),
			zap.String("current", o.Status.String()),
			zap.String("target", target.String()),
		)
		return &Result{NoOp: true, Reason: "stale event"}, nil
	}

	resp, err := s.advance(ctx, actorID, o.ID, o.Status, target)
	if err != nil {
		return nil, err
	}
	return &Result{Order: resp}, nil
}

// createFromEvent registers an order first seen through a webhook. The
// event must carry the line items; later events for the same order do not.
func (s *IngressService) createFromEvent(ctx context.Context, actorID, shopID uuid.UUID, platform order.Platform, target order.OrderStatus, p *OrderEventPayload) (*Result, error) {
	if len(p.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "First event for an unknown order must include items")
	}
	specs, err := orderapp.ParseItemSpecs(p.Items)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(p.Total)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", "Invalid total: "+p.Total)
	}

	buyerID := actorID
	if p.BuyerID != "" {
		buyerID, err = uuid.Parse(p.BuyerID)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION", "Invalid buyer ID")
		}
	}

	resp, err := s.lifecycle.CreateRemote(ctx, orderapp.RemoteCreateSpec{
		ShopID:        shopID,
		BuyerID:       buyerID,
		Platform:      platform,
		RemoteOrderID: p.RemoteOrderID,
		Items:         specs,
		Total:         total,
	})
	if err != nil {
		return nil, err
	}

	if target != order.OrderStatusPending {
		orderID, err := uuid.Parse(resp.ID)
		if err != nil {
			return nil, err
		}
		resp, err = s.advance(ctx, actorID, orderID, order.OrderStatusPending, target)
		if err != nil {
			return nil, err
		}
	}
	return &Result{Order: resp, Created: true}, nil
}

// advance replays the forward path between current and target one edge at
// a time, so a late-subscribing order catches up through real transitions.
// A side-exit target applies as a single edge.
func (s *IngressService) advance(ctx context.Context, actorID, orderID uuid.UUID, current, target order.OrderStatus) (*orderapp.OrderResponse, error) {
	currentRank, currentForward := current.ForwardRank()
	targetRank, targetForward := target.ForwardRank()

	steps := []order.OrderStatus{target}
	if currentForward && targetForward {
		steps = forwardPath[currentRank+1 : targetRank+1]
	}

	var resp *orderapp.OrderResponse
	for _, step := range steps {
		var err error
		resp, err = s.lifecycle.Transition(ctx, actorID, orderID, step)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// seen reports whether the delivery id was already processed
func (s *IngressService) seen(ctx context.Context, eventID string) bool {
	if eventID == "" || s.store == nil || !s.idempotency.Enabled {
		return false
	}
	processed, err := s.store.IsProcessed(ctx, deliveryKey(eventID))
	if err != nil {
		// dedupe is an optimization; staleness checks still hold
		s.logger.Warn("idempotency lookup failed", zap.Error(err))
		return false
	}
	return processed
}

// markProcessed records the delivery id after a successful apply
func (s *IngressService) markProcessed(ctx context.Context, eventID string) {
	if eventID == "" || s.store == nil || !s.idempotency.Enabled {
		return
	}
	if _, err := s.store.MarkProcessed(ctx, deliveryKey(eventID), s.idempotency.TTL); err != nil {
		s.logger.Warn("idempotency mark failed", zap.Error(err))
	}
}

// acknowledge finalizes a successful apply: the delivery is marked
// processed and the change is mirrored to the other storefronts. Relay
// failures are logged and swallowed.
func (s *IngressService) acknowledge(ctx context.Context, p *OrderEventPayload, remoteOrderID string, origin order.Platform, result *Result) {
	s.markProcessed(ctx, p.EventID)

	if result.Order == nil {
		return
	}

	// Relay the change the lifecycle actually emitted so the mirrored
	// update keeps the audit event id and timestamp. The reconstruction
	// below is a fallback for responses that carry no change.
	var change order.StatusChange
	if result.Order.Change != nil {
		change = *result.Order.Change
	} else {
		change.ToStatus = order.OrderStatus(result.Order.Status)
		if id, err := uuid.Parse(result.Order.ID); err == nil {
			change.OrderID = id
		}
		if id, err := uuid.Parse(result.Order.ShopID); err == nil {
			change.ShopID = id
		}
	}

	for _, relay := range s.relays {
		if relay.Platform() == origin {
			continue
		}
		if err := relay.PushStatus(ctx, change, remoteOrderID); err != nil {
			s.logger.Warn("status relay failed",
				zap.String("platform", relay.Platform().String()),
				zap.String("order_id", result.Order.ID),
				zap.Error(err),
			)
		}
	}
}

func deliveryKey(eventID string) string {
	return "webhook:order:" + eventID
}
