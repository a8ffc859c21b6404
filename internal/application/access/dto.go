package access

import (
	"time"

	"github.com/storefront/backend/internal/domain/access"
)

// GrantAccessRequest is the request to grant shop access to a user
type GrantAccessRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// GrantResponse is the API representation of an access grant
type GrantResponse struct {
	UserID    string    `json:"user_id"`
	ShopID    string    `json:"shop_id"`
	GrantedBy string    `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ShopResponse is the API representation of a shop
type ShopResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Platform  string    `json:"platform,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToGrantResponse converts a grant to its API representation
func ToGrantResponse(g *access.Grant) *GrantResponse {
	return &GrantResponse{
		UserID:    g.UserID.String(),
		ShopID:    g.ShopID.String(),
		GrantedBy: g.GrantedBy.String(),
		CreatedAt: g.CreatedAt,
	}
}

// ToShopResponse converts a shop to its API representation
func ToShopResponse(s *access.Shop) *ShopResponse {
	return &ShopResponse{
		ID:        s.ID.String(),
		OwnerID:   s.OwnerID.String(),
		Name:      s.Name,
		Platform:  s.Platform,
		CreatedAt: s.CreatedAt,
	}
}
