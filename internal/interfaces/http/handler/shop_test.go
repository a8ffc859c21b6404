package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	accessapp "github.com/storefront/backend/internal/application/access"
	"github.com/storefront/backend/internal/domain/access"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockShopRepository implements access.ShopRepository for testing
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*access.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]access.Shop, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Shop), args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, s *access.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShopRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockGrantRepository implements access.GrantRepository for testing
type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) FindByUserAndShop(ctx context.Context, userID, shopID uuid.UUID) (*access.Grant, error) {
	args := m.Called(ctx, userID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Grant), args.Error(1)
}

func (m *MockGrantRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]access.Grant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Grant), args.Error(1)
}

func (m *MockGrantRepository) Save(ctx context.Context, g *access.Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGrantRepository) Delete(ctx context.Context, userID, shopID uuid.UUID) error {
	args := m.Called(ctx, userID, shopID)
	return args.Error(0)
}

type shopHandlerFixture struct {
	shops   *MockShopRepository
	grants  *MockGrantRepository
	handler *ShopHandler
}

func newShopFixture() *shopHandlerFixture {
	shops := new(MockShopRepository)
	grants := new(MockGrantRepository)
	service := accessapp.NewService(shops, grants, zap.NewNop())
	return &shopHandlerFixture{
		shops:   shops,
		grants:  grants,
		handler: NewShopHandler(service),
	}
}

func (f *shopHandlerFixture) router(actorID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(actorID))
	r.POST("/shops", f.handler.Create)
	r.GET("/shops", f.handler.List)
	r.GET("/shops/:id", f.handler.Get)
	r.POST("/shops/:id/access", f.handler.Grant)
	r.DELETE("/shops/:id/access/:userId", f.handler.Revoke)
	return r
}

func newTestShop(t *testing.T, ownerID uuid.UUID) *access.Shop {
	t.Helper()
	shop, err := access.NewShop(ownerID, "Main Street Shop", "PRIMARY")
	require.NoError(t, err)
	return shop
}

func TestShopHandler_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("registers a shop", func(t *testing.T) {
		f := newShopFixture()
		f.shops.On("Save", mock.Anything, mock.AnythingOfType("*access.Shop")).Return(nil)

		body := []byte(`{"name":"Main Street Shop"}`)
		req := httptest.NewRequest("POST", "/shops", bytes.NewReader(body))
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), ownerID.String())
	})

	t.Run("empty name is 400", func(t *testing.T) {
		f := newShopFixture()

		req := httptest.NewRequest("POST", "/shops", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShopHandler_Get(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner reads own shop", func(t *testing.T) {
		f := newShopFixture()
		shop := newTestShop(t, ownerID)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)

		req := httptest.NewRequest("GET", "/shops/"+shop.ID.String(), nil)
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), shop.ID.String())
	})

	t.Run("stranger is 403", func(t *testing.T) {
		f := newShopFixture()
		stranger := uuid.New()
		shop := newTestShop(t, ownerID)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
		f.grants.On("FindByUserAndShop", mock.Anything, stranger, shop.ID).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("GET", "/shops/"+shop.ID.String(), nil)
		w := httptest.NewRecorder()
		f.router(stranger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestShopHandler_List(t *testing.T) {
	ownerID := uuid.New()

	f := newShopFixture()
	owned := newTestShop(t, ownerID)
	grantedShop := newTestShop(t, uuid.New())
	grant, err := access.NewGrant(ownerID, grantedShop.ID, grantedShop.OwnerID)
	require.NoError(t, err)

	f.shops.On("FindByOwner", mock.Anything, ownerID).Return([]access.Shop{*owned}, nil)
	f.grants.On("FindByUser", mock.Anything, ownerID).Return([]access.Grant{*grant}, nil)
	f.shops.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
	f.shops.On("FindByID", mock.Anything, grantedShop.ID).Return(grantedShop, nil)

	req := httptest.NewRequest("GET", "/shops", nil)
	w := httptest.NewRecorder()
	f.router(ownerID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), owned.ID.String())
	assert.Contains(t, w.Body.String(), grantedShop.ID.String())
}

func TestShopHandler_Grant(t *testing.T) {
	ownerID := uuid.New()
	granteeID := uuid.New()

	t.Run("owner grants access", func(t *testing.T) {
		f := newShopFixture()
		shop := newTestShop(t, ownerID)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
		f.grants.On("FindByUserAndShop", mock.Anything, granteeID, shop.ID).Return(nil, shared.ErrNotFound)
		f.grants.On("Save", mock.Anything, mock.AnythingOfType("*access.Grant")).Return(nil)

		body := []byte(`{"user_id":"` + granteeID.String() + `"}`)
		req := httptest.NewRequest("POST", "/shops/"+shop.ID.String()+"/access", bytes.NewReader(body))
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), granteeID.String())
	})

	t.Run("non-owner cannot grant", func(t *testing.T) {
		f := newShopFixture()
		other := uuid.New()
		shop := newTestShop(t, ownerID)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)

		body := []byte(`{"user_id":"` + granteeID.String() + `"}`)
		req := httptest.NewRequest("POST", "/shops/"+shop.ID.String()+"/access", bytes.NewReader(body))
		w := httptest.NewRecorder()
		f.router(other).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestShopHandler_Revoke(t *testing.T) {
	ownerID := uuid.New()
	granteeID := uuid.New()

	t.Run("owner revokes a grant", func(t *testing.T) {
		f := newShopFixture()
		shop := newTestShop(t, ownerID)
		grant, err := access.NewGrant(granteeID, shop.ID, ownerID)
		require.NoError(t, err)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
		f.grants.On("FindByUserAndShop", mock.Anything, granteeID, shop.ID).Return(grant, nil)
		f.grants.On("Delete", mock.Anything, granteeID, shop.ID).Return(nil)

		req := httptest.NewRequest("DELETE", "/shops/"+shop.ID.String()+"/access/"+granteeID.String(), nil)
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing grant is 404", func(t *testing.T) {
		f := newShopFixture()
		shop := newTestShop(t, ownerID)
		f.shops.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
		f.grants.On("FindByUserAndShop", mock.Anything, granteeID, shop.ID).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("DELETE", "/shops/"+shop.ID.String()+"/access/"+granteeID.String(), nil)
		w := httptest.NewRecorder()
		f.router(ownerID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
