package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	service *orderapp.LifecycleService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *orderapp.LifecycleService) *OrderHandler {
	return &OrderHandler{service: service}
}

// orderListRequest is the query surface of the order listing
type orderListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,orderstatus"`
	ShopID string `form:"shop_id" binding:"omitempty,uuid"`
	Origin string `form:"origin_platform" binding:"omitempty,oneof=PRIMARY MARKETPLACE OUTLET"`
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID, _ := uuid.Parse(uri.ID)

	resp, err := h.service.Get(c.Request.Context(), actorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /orders, scoped to the shops the actor can access
func (h *OrderHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if req.Status != "" {
		status, err := order.ParseOrderStatus(req.Status)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		filter.Filters["status"] = status.String()
	}
	if req.ShopID != "" {
		filter.Filters["shop_id"] = req.ShopID
	}
	if req.Origin != "" {
		filter.Filters["origin_platform"] = req.Origin
	}

	result, err := h.service.List(c.Request.Context(), actorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListPurchases handles GET /purchases, the buyer's own orders across
// every shop
func (h *OrderHandler) ListPurchases(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	items, err := h.service.ListPurchases(c.Request.Context(), actorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Transition handles PATCH /orders/:id/status
func (h *OrderHandler) Transition(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID, _ := uuid.Parse(uri.ID)

	var req orderapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	target, err := order.ParseOrderStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.Transition(c.Request.Context(), actorID, orderID, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListEvents handles GET /orders/:id/events, the order's audit trail
func (h *OrderHandler) ListEvents(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID, _ := uuid.Parse(uri.ID)

	records, err := h.service.ListEvents(c.Request.Context(), actorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}
