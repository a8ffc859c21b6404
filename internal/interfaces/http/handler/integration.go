package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	accessapp "github.com/storefront/backend/internal/application/access"
	integrationapp "github.com/storefront/backend/internal/application/integration"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// defaultSyncRunTimeout caps a detached backfill run when no limit is
// configured, so a hung storefront API cannot pin a goroutine forever
const defaultSyncRunTimeout = 10 * time.Minute

// IntegrationHandler handles storefront backfill endpoints
type IntegrationHandler struct {
	BaseHandler
	sync       *integrationapp.SyncService
	access     *accessapp.Service
	runTimeout time.Duration
	logger     *zap.Logger
}

// NewIntegrationHandler creates a new integration handler. runTimeout
// bounds each detached backfill run; zero selects the default.
func NewIntegrationHandler(sync *integrationapp.SyncService, access *accessapp.Service, runTimeout time.Duration, logger *zap.Logger) *IntegrationHandler {
	if runTimeout <= 0 {
		runTimeout = defaultSyncRunTimeout
	}
	return &IntegrationHandler{
		sync:       sync,
		access:     access,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// triggerSyncRequest is the request to start a backfill run
type triggerSyncRequest struct {
	ShopID      string `json:"shop_id" binding:"required,uuid"`
	AccessToken string `json:"access_token" binding:"required"`
}

// platformParam parses the :platform path segment
func platformParam(c *gin.Context) (order.Platform, error) {
	p := order.Platform(strings.ToUpper(c.Param("platform")))
	if !p.IsValid() || p == order.PlatformPrimary {
		return "", shared.NewDomainError("VALIDATION", "Unknown storefront platform: "+c.Param("platform"))
	}
	return p, nil
}

// TriggerSync handles POST /integrations/:platform/sync. The run proceeds
// in the background; progress is visible through the sync record.
func (h *IntegrationHandler) TriggerSync(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	platform, err := platformParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req triggerSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	shopID, _ := uuid.Parse(req.ShopID)

	ok, err := h.access.HasAccess(c.Request.Context(), actorID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ok {
		h.Forbidden(c, "No access to this shop")
		return
	}

	cred := integration.Credential{
		UserID:      actorID,
		ShopID:      shopID,
		Platform:    platform,
		AccessToken: req.AccessToken,
	}

	// Detached from the request: an aborted HTTP call must not abort a
	// half-finished backfill. The run timeout still bounds it, and an
	// expired run finishes its record as INCOMPLETE.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()
		if _, err := h.sync.Run(ctx, cred); err != nil {
			h.logger.Error("background sync run failed",
				zap.String("shop_id", shopID.String()),
				zap.String("platform", platform.String()),
				zap.Error(err),
			)
		}
	}()

	h.Accepted(c, gin.H{
		"shop_id":  shopID.String(),
		"platform": platform.String(),
		"status":   "RUNNING",
	})
}

// GetSyncState handles GET /integrations/:platform/sync?shop_id=
func (h *IntegrationHandler) GetSyncState(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	platform, err := platformParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	shopID, err := uuid.Parse(c.Query("shop_id"))
	if err != nil {
		h.BadRequest(c, "shop_id query parameter is required")
		return
	}

	ok, err := h.access.HasAccess(c.Request.Context(), actorID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ok {
		h.Forbidden(c, "No access to this shop")
		return
	}

	rec, err := h.sync.Latest(c.Request.Context(), shopID, platform)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "No sync run recorded for this shop and platform")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, integrationapp.ToSyncRecordResponse(rec))
}
