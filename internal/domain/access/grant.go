package access

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Grant relates a user to a shop they may act on without owning it.
// Unique per (UserID, ShopID); additive, never required for the owner.
type Grant struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ShopID    uuid.UUID
	GrantedBy uuid.UUID
}

// NewGrant creates a new access grant
func NewGrant(userID, shopID, grantedBy uuid.UUID) (*Grant, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "User ID cannot be empty")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Shop ID cannot be empty")
	}

	return &Grant{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ShopID:     shopID,
		GrantedBy:  grantedBy,
	}, nil
}
