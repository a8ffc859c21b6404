package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(nil)

	r := gin.New()
	r.GET("/health", h.Health)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "go_version")
}

func TestSystemHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(nil)

	r := gin.New()
	r.GET("/ready", h.Ready)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// no database configured, nothing to probe
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}
