package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	webhookapp "github.com/storefront/backend/internal/application/webhook"
	"github.com/storefront/backend/internal/domain/shared"
)

// WebhookHandler handles storefront webhook ingress
type WebhookHandler struct {
	BaseHandler
	ingress *webhookapp.IngressService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(ingress *webhookapp.IngressService) *WebhookHandler {
	return &WebhookHandler{ingress: ingress}
}

// OrderEvent handles POST /webhooks/orders. Duplicates and stale
// deliveries acknowledge with a no-op result; an illegal transition is a
// 409 so the storefront stops redelivering instead of retrying forever.
func (h *WebhookHandler) OrderEvent(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var payload webhookapp.OrderEventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, "Invalid event payload: "+err.Error())
		return
	}

	result, err := h.ingress.Apply(c.Request.Context(), actorID, &payload)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_TRANSITION" {
			h.Error(c, http.StatusConflict, domainErr.Code, domainErr.Message)
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
