package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-keep-it-long-enough",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})
}

func fullHandlers() Handlers {
	return Handlers{
		Orders:       handler.NewOrderHandler(nil),
		Shops:        handler.NewShopHandler(nil),
		Webhooks:     handler.NewWebhookHandler(nil),
		Integrations: handler.NewIntegrationHandler(nil, nil, 0, nil),
		Events:       handler.NewEventStreamHandler(nil),
		System:       handler.NewSystemHandler(nil),
	}
}

func TestNew_RegistersFullSurface(t *testing.T) {
	engine := New(fullHandlers(), Options{JWT: testJWTService()})

	want := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/orders"},
		{"GET", "/api/v1/orders"},
		{"GET", "/api/v1/orders/:id"},
		{"PATCH", "/api/v1/orders/:id/status"},
		{"GET", "/api/v1/orders/:id/events"},
		{"GET", "/api/v1/purchases"},
		{"POST", "/api/v1/shops"},
		{"GET", "/api/v1/shops"},
		{"GET", "/api/v1/shops/:id"},
		{"POST", "/api/v1/shops/:id/access"},
		{"DELETE", "/api/v1/shops/:id/access/:userId"},
		{"POST", "/api/v1/webhooks/orders"},
		{"GET", "/api/v1/events/stream"},
		{"POST", "/api/v1/integrations/:platform/sync"},
		{"GET", "/api/v1/integrations/:platform/sync"},
		{"GET", "/health"},
		{"GET", "/ready"},
	}

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, w := range want {
		assert.True(t, registered[w.method+" "+w.path], "missing route %s %s", w.method, w.path)
	}
}

func TestNew_HealthProbesSkipAuth(t *testing.T) {
	engine := New(fullHandlers(), Options{JWT: testJWTService()})

	for _, path := range []string{"/health", "/healthz", "/ready", "/api/v1/health"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "probe %s must not require a token", path)
	}
}

func TestNew_APIRequiresToken(t *testing.T) {
	engine := New(fullHandlers(), Options{JWT: testJWTService()})

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_WebhookIngressRequiresToken(t *testing.T) {
	// storefront connectors present the same bearer tokens as users
	engine := New(fullHandlers(), Options{JWT: testJWTService()})

	req := httptest.NewRequest("POST", "/api/v1/webhooks/orders", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_ValidTokenPassesMiddleware(t *testing.T) {
	jwtService := testJWTService()
	engine := New(fullHandlers(), Options{JWT: jwtService})

	token, err := jwtService.Generate(uuid.New(), "connector")
	require.NoError(t, err)

	// unknown path with a valid token reaches the 404 handler instead of
	// being rejected at the auth layer
	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
