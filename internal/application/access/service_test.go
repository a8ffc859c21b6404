package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/access"
	"github.com/storefront/backend/internal/domain/shared"
)

type mockShopRepo struct {
	mock.Mock
}

func (m *mockShopRepo) FindByID(ctx context.Context, id uuid.UUID) (*access.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Shop), args.Error(1)
}

func (m *mockShopRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]access.Shop, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Shop), args.Error(1)
}

func (m *mockShopRepo) Save(ctx context.Context, s *access.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockShopRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockGrantRepo struct {
	mock.Mock
}

func (m *mockGrantRepo) FindByUserAndShop(ctx context.Context, userID, shopID uuid.UUID) (*access.Grant, error) {
	args := m.Called(ctx, userID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Grant), args.Error(1)
}

func (m *mockGrantRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]access.Grant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Grant), args.Error(1)
}

func (m *mockGrantRepo) Save(ctx context.Context, g *access.Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGrantRepo) Delete(ctx context.Context, userID, shopID uuid.UUID) error {
	args := m.Called(ctx, userID, shopID)
	return args.Error(0)
}

func newTestShop(t *testing.T, ownerID uuid.UUID) *access.Shop {
	t.Helper()
	shop, err := access.NewShop(ownerID, "Test Shop", "PRIMARY")
	require.NoError(t, err)
	return shop
}

func TestService_HasAccess(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	otherID := uuid.New()

	t.Run("owner has access without a grant", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)

		ok, err := svc.HasAccess(ctx, ownerID, shop.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		grants.AssertNotCalled(t, "FindByUserAndShop")
	})

	t.Run("grantee has access", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		grant, err := access.NewGrant(otherID, shop.ID, ownerID)
		require.NoError(t, err)

		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, otherID, shop.ID).Return(grant, nil)

		ok, err := svc.HasAccess(ctx, otherID, shop.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unrelated user has no access", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, otherID, shop.ID).Return(nil, shared.ErrNotFound)

		ok, err := svc.HasAccess(ctx, otherID, shop.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing shop surfaces not found", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shopID := uuid.New()
		shops.On("FindByID", ctx, shopID).Return(nil, shared.ErrNotFound)

		_, err := svc.HasAccess(ctx, ownerID, shopID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ResolveAccessibleShops(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unions owned and granted without duplicates", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		owned := newTestShop(t, userID)
		grantedShopID := uuid.New()

		grantA, err := access.NewGrant(userID, grantedShopID, uuid.New())
		require.NoError(t, err)
		// a grant on an owned shop must not duplicate the entry
		grantB, err := access.NewGrant(userID, owned.ID, uuid.New())
		require.NoError(t, err)

		shops.On("FindByOwner", ctx, userID).Return([]access.Shop{*owned}, nil)
		grants.On("FindByUser", ctx, userID).Return([]access.Grant{*grantA, *grantB}, nil)

		ids, err := svc.ResolveAccessibleShops(ctx, userID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{owned.ID, grantedShopID}, ids)
	})

	t.Run("user with nothing resolves empty", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shops.On("FindByOwner", ctx, userID).Return([]access.Shop{}, nil)
		grants.On("FindByUser", ctx, userID).Return([]access.Grant{}, nil)

		ids, err := svc.ResolveAccessibleShops(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestService_Grant(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	granteeID := uuid.New()

	t.Run("owner grants access", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, granteeID, shop.ID).Return(nil, shared.ErrNotFound)
		grants.On("Save", ctx, mock.AnythingOfType("*access.Grant")).Return(nil)

		resp, err := svc.Grant(ctx, ownerID, granteeID, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, granteeID.String(), resp.UserID)
		assert.Equal(t, ownerID.String(), resp.GrantedBy)
		grants.AssertExpectations(t)
	})

	t.Run("granting twice is idempotent", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		existing, err := access.NewGrant(granteeID, shop.ID, ownerID)
		require.NoError(t, err)

		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, granteeID, shop.ID).Return(existing, nil)

		resp, err := svc.Grant(ctx, ownerID, granteeID, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, granteeID.String(), resp.UserID)
		grants.AssertNotCalled(t, "Save")
	})

	t.Run("non-owner cannot grant", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)

		_, err := svc.Grant(ctx, granteeID, uuid.New(), shop.ID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("grantee cannot re-grant to others", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		// access via grant is not ownership, so granting stays forbidden
		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)

		_, err := svc.Grant(ctx, granteeID, uuid.New(), shop.ID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("missing shop surfaces not found", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shopID := uuid.New()
		shops.On("FindByID", ctx, shopID).Return(nil, shared.ErrNotFound)

		_, err := svc.Grant(ctx, ownerID, granteeID, shopID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Revoke(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	granteeID := uuid.New()

	t.Run("owner revokes an existing grant", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		grant, err := access.NewGrant(granteeID, shop.ID, ownerID)
		require.NoError(t, err)

		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, granteeID, shop.ID).Return(grant, nil)
		grants.On("Delete", ctx, granteeID, shop.ID).Return(nil)

		require.NoError(t, svc.Revoke(ctx, ownerID, granteeID, shop.ID))
		grants.AssertExpectations(t)
	})

	t.Run("revoking a missing grant surfaces not found", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)
		grants.On("FindByUserAndShop", ctx, granteeID, shop.ID).Return(nil, shared.ErrNotFound)

		err := svc.Revoke(ctx, ownerID, granteeID, shop.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)
		grants.AssertNotCalled(t, "Delete")
	})

	t.Run("non-owner cannot revoke", func(t *testing.T) {
		shops := new(mockShopRepo)
		grants := new(mockGrantRepo)
		svc := NewService(shops, grants, zap.NewNop())

		shop := newTestShop(t, ownerID)
		shops.On("FindByID", ctx, shop.ID).Return(shop, nil)

		err := svc.Revoke(ctx, granteeID, granteeID, shop.ID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}
