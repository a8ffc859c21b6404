package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func testItems() []ItemSpec {
	return []ItemSpec{
		{ProductID: "p1", ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
	}
}

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), PlatformPrimary, "", testItems(), decimal.NewFromInt(200))
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	shopID := uuid.New()
	buyerID := uuid.New()

	t.Run("creates order in PENDING with matching total", func(t *testing.T) {
		o, err := NewOrder(shopID, buyerID, PlatformPrimary, "", testItems(), decimal.NewFromInt(200))
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, shopID, o.ShopID)
		assert.Equal(t, buyerID, o.BuyerID)
		assert.Equal(t, PlatformPrimary, o.OriginPlatform)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Len(t, o.Items, 1)
		assert.True(t, o.Total.Equal(decimal.NewFromInt(200)))
		assert.True(t, o.Items[0].Subtotal.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, 1, o.GetVersion())
	})

	t.Run("publishes OrderCreated event", func(t *testing.T) {
		o, err := NewOrder(shopID, buyerID, PlatformMarketplace, "mk-1001", testItems(), decimal.NewFromInt(200))
		require.NoError(t, err)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())

		created, ok := events[0].(*OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, o.ID, created.OrderID)
		assert.Equal(t, PlatformMarketplace, created.OriginPlatform)

		change := created.Change()
		assert.Equal(t, OrderStatusPending, change.ToStatus)
		assert.Empty(t, change.FromStatus)
	})

	t.Run("fails with no items", func(t *testing.T) {
		_, err := NewOrder(shopID, buyerID, PlatformPrimary, "", nil, decimal.Zero)
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		items := []ItemSpec{{ProductID: "p1", Quantity: 0, UnitPrice: decimal.NewFromInt(10)}}
		_, err := NewOrder(shopID, buyerID, PlatformPrimary, "", items, decimal.Zero)
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})

	t.Run("fails with negative unit price", func(t *testing.T) {
		items := []ItemSpec{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)}}
		_, err := NewOrder(shopID, buyerID, PlatformPrimary, "", items, decimal.NewFromInt(-5))
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})

	t.Run("fails when declared total does not match subtotals", func(t *testing.T) {
		_, err := NewOrder(shopID, buyerID, PlatformPrimary, "", testItems(), decimal.NewFromInt(199))
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})

	t.Run("fails with unknown platform", func(t *testing.T) {
		_, err := NewOrder(shopID, buyerID, Platform("EBAY"), "", testItems(), decimal.NewFromInt(200))
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	actor := uuid.New()

	t.Run("applies a legal edge and records the event", func(t *testing.T) {
		o := createTestOrder(t)

		err := o.TransitionTo(OrderStatusToShip, actor)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusToShip, o.Status)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPending, changed.FromStatus)
		assert.Equal(t, OrderStatusToShip, changed.ToStatus)
		assert.Equal(t, actor, changed.ActorUserID)
	})

	t.Run("rejects an illegal edge", func(t *testing.T) {
		o := createTestOrder(t)

		err := o.TransitionTo(OrderStatusCompleted, actor)
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_TRANSITION")
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Empty(t, o.GetDomainEvents())
	})

	t.Run("rejects every edge out of a terminal status", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(OrderStatusCancelled, actor))
		require.True(t, o.IsTerminal())

		for _, target := range []OrderStatus{
			OrderStatusPending, OrderStatusToShip, OrderStatusToReceive, OrderStatusCompleted,
			OrderStatusCancelled, OrderStatusReturned, OrderStatusRefunded, OrderStatusFailed,
		} {
			err := o.TransitionTo(target, actor)
			require.Error(t, err, "terminal order must reject %s", target)
			assertDomainCode(t, err, "INVALID_TRANSITION")
		}
	})

	t.Run("walks the full happy path", func(t *testing.T) {
		o := createTestOrder(t)

		require.NoError(t, o.TransitionTo(OrderStatusToShip, actor))
		require.NoError(t, o.TransitionTo(OrderStatusToReceive, actor))
		require.NoError(t, o.TransitionTo(OrderStatusCompleted, actor))
		assert.Equal(t, OrderStatusCompleted, o.Status)
		assert.Len(t, o.GetDomainEvents(), 3)
	})

	t.Run("rejects unknown target status", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(OrderStatus("SHIPPED"), actor)
		require.Error(t, err)
		assertDomainCode(t, err, "VALIDATION")
	})
}

func TestBuyerMayRequest(t *testing.T) {
	assert.True(t, BuyerMayRequest(OrderStatusCompleted))
	assert.True(t, BuyerMayRequest(OrderStatusCancelled))
	assert.True(t, BuyerMayRequest(OrderStatusReturned))
	assert.False(t, BuyerMayRequest(OrderStatusToShip))
	assert.False(t, BuyerMayRequest(OrderStatusToReceive))
	assert.False(t, BuyerMayRequest(OrderStatusRefunded))
	assert.False(t, BuyerMayRequest(OrderStatusFailed))
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
