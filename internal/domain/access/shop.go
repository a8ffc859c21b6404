package access

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Shop represents a seller's storefront entity, owned by exactly one user
type Shop struct {
	shared.BaseEntity
	OwnerID  uuid.UUID
	Name     string
	Platform string // optional platform tag, informational only
}

// NewShop creates a new shop
func NewShop(ownerID uuid.UUID, name, platform string) (*Shop, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Shop name cannot be empty")
	}

	return &Shop{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Name:       name,
		Platform:   platform,
	}, nil
}

// IsOwnedBy returns true if the user owns this shop
func (s *Shop) IsOwnedBy(userID uuid.UUID) bool {
	return s.OwnerID == userID
}
