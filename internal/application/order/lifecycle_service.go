package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/notify"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// maxTransitionRetries bounds the reload-and-retry loop on version
// conflicts. The loser of a race re-validates against the winner's status,
// so a retry either succeeds or fails with INVALID_TRANSITION.
const maxTransitionRetries = 3

// AccessChecker answers shop-access questions for authorization
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, shopID uuid.UUID) (bool, error)
	ResolveAccessibleShops(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ShopChecker reports shop existence for order creation
type ShopChecker interface {
	Exists(ctx context.Context, shopID uuid.UUID) (bool, error)
}

// LifecycleService is the single write path for order status. Every
// creation and transition, whether from the API, a webhook, or a bulk
// import, goes through here.
type LifecycleService struct {
	orders    order.OrderRepository
	eventLog  order.EventLogRepository
	access    AccessChecker
	shops     ShopChecker
	publisher notify.Publisher
	logger    *zap.Logger
}

// NewLifecycleService creates a new order lifecycle service
func NewLifecycleService(
	orders order.OrderRepository,
	eventLog order.EventLogRepository,
	access AccessChecker,
	shops ShopChecker,
	publisher notify.Publisher,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		orders:    orders,
		eventLog:  eventLog,
		access:    access,
		shops:     shops,
		publisher: publisher,
		logger:    logger,
	}
}

// Create places a new order with the actor as buyer
func (s *LifecycleService) Create(ctx context.Context, buyerID uuid.UUID, req *CreateOrderRequest) (*OrderResponse, error) {
	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", "Invalid shop ID")
	}

	exists, err := s.shops.Exists(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	origin := order.PlatformPrimary
	if req.OriginPlatform != "" {
		origin = order.Platform(req.OriginPlatform)
	}

	specs, err := ParseItemSpecs(req.Items)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION", "Invalid total: "+req.Total)
	}

	o, err := order.NewOrder(shopID, buyerID, origin, req.RemoteOrderID, specs, total)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o)
	if change, ok := s.fanOut(ctx, o); ok {
		resp.Change = &change
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("shop_id", shopID.String()),
		zap.String("origin", origin.String()),
	)
	return resp, nil
}

// RemoteCreateSpec describes an order first seen through a storefront
// webhook. The buyer comes from the payload, not the pushing credential.
type RemoteCreateSpec struct {
	ShopID        uuid.UUID
	BuyerID       uuid.UUID
	Platform      order.Platform
	RemoteOrderID string
	Items         []order.ItemSpec
	Total         decimal.Decimal
}

// CreateRemote places an order reported live by a remote storefront. The
// order starts in PENDING and the creation is fanned out like any local
// order; the response carries the emitted change for relaying.
func (s *LifecycleService) CreateRemote(ctx context.Context, spec RemoteCreateSpec) (*OrderResponse, error) {
	exists, err := s.shops.Exists(ctx, spec.ShopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	o, err := order.NewOrder(spec.ShopID, spec.BuyerID, spec.Platform, spec.RemoteOrderID, spec.Items, spec.Total)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o)
	if change, ok := s.fanOut(ctx, o); ok {
		resp.Change = &change
	}

	s.logger.Info("remote order created",
		zap.String("order_id", o.ID.String()),
		zap.String("platform", spec.Platform.String()),
		zap.String("remote_order_id", spec.RemoteOrderID),
	)
	return resp, nil
}

// ImportSpec describes an order restored by bulk backfill
type ImportSpec struct {
	ShopID        uuid.UUID
	BuyerID       uuid.UUID
	Platform      order.Platform
	RemoteOrderID string
	Items         []order.ItemSpec
	Total         decimal.Decimal
	Status        order.OrderStatus
	CreatedAt     time.Time
}

// Import persists an order backfilled from a remote storefront at its
// reported status. No per-step transitions run and nothing is fanned out;
// the history predates this system.
func (s *LifecycleService) Import(ctx context.Context, spec ImportSpec) (*order.Order, error) {
	o, err := order.NewImportedOrder(spec.ShopID, spec.BuyerID, spec.Platform, spec.RemoteOrderID,
		spec.Items, spec.Total, spec.Status, spec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Transition moves an order to a new status. Authorization and edge
// validation run against a fresh load; a version conflict reloads and
// re-validates, so concurrent callers serialize and at most one of two
// racing transitions succeeds.
func (s *LifecycleService) Transition(ctx context.Context, actorID, orderID uuid.UUID, target order.OrderStatus) (*OrderResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if err := s.authorizeTransition(ctx, o, actorID, target); err != nil {
			return nil, err
		}
		if err := o.TransitionTo(target, actorID); err != nil {
			return nil, err
		}

		if err := s.orders.SaveWithLock(ctx, o); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		resp := ToOrderResponse(o)
		if change, ok := s.fanOut(ctx, o); ok {
			resp.Change = &change
		}

		s.logger.Info("order transitioned",
			zap.String("order_id", o.ID.String()),
			zap.String("to_status", target.String()),
			zap.String("actor", actorID.String()),
			zap.Int("attempt", attempt+1),
		)
		return resp, nil
	}
	return nil, lastErr
}

// Get loads an order visible to the actor
func (s *LifecycleService) Get(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, o, actorID); err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// List returns orders across every shop the actor can act on
func (s *LifecycleService) List(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	shopIDs, err := s.access.ResolveAccessibleShops(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(shopIDs) == 0 {
		empty := shared.NewPaginated([]OrderResponse{}, 0, filter.Page, filter.PageSize)
		return &empty, nil
	}

	orders, err := s.orders.FindAllForShops(ctx, shopIDs, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountForShops(ctx, shopIDs, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPurchases returns orders the actor placed as buyer
func (s *LifecycleService) ListPurchases(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orders.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}
	return items, nil
}

// ListEvents returns the audit log for an order visible to the actor
func (s *LifecycleService) ListEvents(ctx context.Context, actorID, orderID uuid.UUID) ([]EventRecordResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, o, actorID); err != nil {
		return nil, err
	}

	records, err := s.eventLog.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]EventRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToEventRecordResponse(r))
	}
	return out, nil
}

// authorizeTransition decides whether the actor may request the target
// status. Buyers may act on their own order for a limited set of targets;
// everyone else needs shop access. Legality of the edge itself is checked
// separately, so an authorized but mistimed request fails as
// INVALID_TRANSITION rather than FORBIDDEN.
func (s *LifecycleService) authorizeTransition(ctx context.Context, o *order.Order, actorID uuid.UUID, target order.OrderStatus) error {
	if o.BuyerID == actorID && order.BuyerMayRequest(target) {
		return nil
	}
	ok, err := s.access.HasAccess(ctx, actorID, o.ShopID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}
	return nil
}

// authorizeRead allows the buyer and anyone with shop access
func (s *LifecycleService) authorizeRead(ctx context.Context, o *order.Order, actorID uuid.UUID) error {
	if o.BuyerID == actorID {
		return nil
	}
	ok, err := s.access.HasAccess(ctx, actorID, o.ShopID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}
	return nil
}

// fanOut publishes the order's pending changes after the write committed
// and returns the last one. Publishing happens outside any lock and is
// best-effort.
func (s *LifecycleService) fanOut(ctx context.Context, o *order.Order) (last order.StatusChange, ok bool) {
	for _, ev := range o.GetDomainEvents() {
		if carrier, isCarrier := ev.(order.ChangeCarrier); isCarrier {
			last = carrier.Change()
			ok = true
			s.publisher.Publish(ctx, last)
		}
	}
	o.ClearDomainEvents()
	return last, ok
}
