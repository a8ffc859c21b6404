package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessapp "github.com/storefront/backend/internal/application/access"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ShopHandler handles shop and access-grant endpoints
type ShopHandler struct {
	BaseHandler
	access *accessapp.Service
}

// NewShopHandler creates a new shop handler
func NewShopHandler(access *accessapp.Service) *ShopHandler {
	return &ShopHandler{access: access}
}

// createShopRequest is the request to register a shop
type createShopRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Platform string `json:"platform" binding:"omitempty,oneof=PRIMARY MARKETPLACE OUTLET"`
}

// grantURI is the path surface of the revoke endpoint
type grantURI struct {
	ID     string `uri:"id" binding:"required,uuid"`
	UserID string `uri:"userId" binding:"required,uuid"`
}

// Create handles POST /shops
func (h *ShopHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.access.CreateShop(c.Request.Context(), actorID, req.Name, req.Platform)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /shops/:id
func (h *ShopHandler) Get(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shop ID")
		return
	}
	shopID, _ := uuid.Parse(uri.ID)

	ok, err := h.access.HasAccess(c.Request.Context(), actorID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ok {
		h.Forbidden(c, "No access to this shop")
		return
	}

	resp, err := h.access.GetShop(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /shops, every shop the actor owns or was granted
func (h *ShopHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	shopIDs, err := h.access.ResolveAccessibleShops(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	shops := make([]*accessapp.ShopResponse, 0, len(shopIDs))
	for _, id := range shopIDs {
		shop, err := h.access.GetShop(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		shops = append(shops, shop)
	}

	h.Success(c, shops)
}

// Grant handles POST /shops/:id/access
func (h *ShopHandler) Grant(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shop ID")
		return
	}
	shopID, _ := uuid.Parse(uri.ID)

	var req accessapp.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	resp, err := h.access.Grant(c.Request.Context(), actorID, userID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Revoke handles DELETE /shops/:id/access/:userId
func (h *ShopHandler) Revoke(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri grantURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shop or user ID")
		return
	}
	shopID, _ := uuid.Parse(uri.ID)
	userID, _ := uuid.Parse(uri.UserID)

	if err := h.access.Revoke(c.Request.Context(), actorID, userID, shopID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
