package access

import (
	"context"

	"github.com/google/uuid"
)

// ShopRepository defines the persistence port for shops
type ShopRepository interface {
	// FindByID loads a shop
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// FindByOwner lists shops owned by a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Shop, error)

	// Save persists a shop
	Save(ctx context.Context, s *Shop) error

	// Exists reports whether a shop exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// GrantRepository defines the persistence port for access grants
type GrantRepository interface {
	// FindByUserAndShop loads the grant for a (user, shop) pair
	FindByUserAndShop(ctx context.Context, userID, shopID uuid.UUID) (*Grant, error)

	// FindByUser lists all grants held by a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Grant, error)

	// Save persists a grant
	Save(ctx context.Context, g *Grant) error

	// Delete removes the grant for a (user, shop) pair
	Delete(ctx context.Context, userID, shopID uuid.UUID) error
}
